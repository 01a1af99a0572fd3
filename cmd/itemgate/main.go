// Command itemgate is an HTTP gateway exposing one "items" resource over PostgreSQL,
// MySQL/MariaDB or MongoDB.
//
// Usage:
//
//	itemgate [--config path] [--port 8080]
//
// Flags:
//
//	--config  Optional YAML file (server, diagnostics, log sections)
//	--port    Override the HTTP port resolved from WAS_PORT > WEB_PORT > PORT > 81
//
// Environment:
//
//	DB_TYPE      POSTGRESQL | MYSQL | MARIADB | MONGODB (optional when DB_PORT is standard)
//	DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD
//	REDIS_ADDR   mirror diagnostics to Redis
//	METRICS_ADDR serve Prometheus metrics on a separate listener
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/itemgate/internal/api"
	"github.com/ruslano69/itemgate/internal/infra"

	// DB adapter registrations
	_ "github.com/ruslano69/itemgate/pkg/adapters/mongodb"
	_ "github.com/ruslano69/itemgate/pkg/adapters/mysql"
	_ "github.com/ruslano69/itemgate/pkg/adapters/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	portOverride := flag.Int("port", 0, "HTTP port override")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
	}
	if *portOverride > 0 {
		cfg.Server.Port = *portOverride
	}
	setupLogger(cfg.Log)

	if err := os.MkdirAll(cfg.Server.PublicDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Server.PublicDir).Msg("public dir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inf, err := infra.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("infrastructure setup failed")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(cfg, inf.Backend, inf.Diag),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}
		go func() {
			log.Info().Str("addr", cfg.Server.MetricsAddr).Msg("metrics listener started")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db_type", string(inf.Backend.Kind())).
			Bool("configured", inf.Backend.Configured()).
			Msg("itemgate started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	inf.Close(shutdownCtx)
	log.Info().Msg("stopped")
}

// setupLogger switches to JSON output and applies the level from config.
func setupLogger(cfg infra.LogConfig) {
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
