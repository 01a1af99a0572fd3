package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/itemgate/internal/diaglog"
	"github.com/ruslano69/itemgate/pkg/adapters"
)

// Infra holds all live infrastructure handles for the running service.
type Infra struct {
	Diag    *diaglog.Ring
	Backend *adapters.Dispatcher
}

// Setup builds the diagnostic ring (with the Redis mirror when configured)
// and the backend dispatcher. No database connection is opened here: adapters
// connect lazily on first use.
func Setup(ctx context.Context, cfg *Config) (*Infra, error) {
	inf := &Infra{}

	var appenders []diaglog.Appender
	var mirror *diaglog.RedisAppender
	if cfg.Diagnostics.Redis.Addr != "" {
		mirror = diaglog.NewRedisAppender(cfg.Diagnostics.Redis, cfg.Diagnostics.Capacity)
		appenders = append(appenders, mirror)
	}
	inf.Diag = diaglog.New(cfg.Diagnostics.Capacity, appenders...)

	if mirror != nil {
		entries, err := mirror.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Str("redis", cfg.Diagnostics.Redis.Addr).Msg("diagnostics restore skipped")
		} else {
			inf.Diag.Restore(entries)
			log.Info().Int("entries", len(entries)).Msg("diagnostics restored from redis")
		}
	}

	backend, err := adapters.NewDispatcher(cfg.Database, inf.Diag)
	if err != nil {
		inf.Close(ctx)
		return nil, fmt.Errorf("infra: %w", err)
	}
	inf.Backend = backend

	inf.Diag.Add(fmt.Sprintf("Config check: dbType=%s, configured=%t",
		orNone(backend.Kind()), backend.Configured()))
	return inf, nil
}

func orNone(k adapters.Kind) string {
	if k == "" {
		return "(none)"
	}
	return string(k)
}

// Close releases all infrastructure resources.
func (inf *Infra) Close(ctx context.Context) {
	if inf.Backend != nil {
		if err := inf.Backend.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("backend close failed")
		}
	}
	if inf.Diag != nil {
		if err := inf.Diag.Close(); err != nil {
			log.Warn().Err(err).Msg("diagnostics close failed")
		}
	}
}
