package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslano69/itemgate/pkg/adapters"
)

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

const (
	defaultPort = 5432
	minConns    = 1
	maxConns    = 10
)

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register(adapters.KindPostgreSQL, New)
}

const createItemsSQL = `
	CREATE TABLE IF NOT EXISTS items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)
`

// Adapter - адаптер PostgreSQL.
// Пул соединений (1..10) создается лениво при первой операции и живет
// до Close.
type Adapter struct {
	cfg adapters.Config
	rec adapters.Recorder

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New создает адаптер без подключения к БД
func New(cfg adapters.Config, rec adapters.Recorder) adapters.Adapter {
	return &Adapter{cfg: cfg, rec: adapters.OrDiscard(rec)}
}

// Kind реализует adapters.Adapter
func (a *Adapter) Kind() adapters.Kind {
	return adapters.KindPostgreSQL
}

// ConnString строит postgres:// URL из конфигурации. Логин и пароль
// экранируются через url.UserPassword.
func ConnString(cfg adapters.Config) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.PortNumber(defaultPort))),
		Path:   "/" + cfg.Database,
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	return u.String()
}

// getPool возвращает пул, создавая его при первом обращении
func (a *Adapter) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return a.pool, nil
	}

	a.rec.Record(fmt.Sprintf("Connecting to PostgreSQL {host: %s, port: %d, database: %s, user: %s}",
		a.cfg.Host, a.cfg.PortNumber(defaultPort), a.cfg.Database, a.cfg.User), false)

	config, err := pgxpool.ParseConfig(ConnString(a.cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	config.MinConns = minConns
	config.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	a.pool = pool
	return pool, nil
}

// withConn берет соединение из пула и гарантированно возвращает его
func (a *Adapter) withConn(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	pool, err := a.getPool(ctx)
	if err != nil {
		return err
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()
	return fn(conn)
}

// ensureItems создает таблицу items, если ее нет (с явным COMMIT)
func ensureItems(ctx context.Context, conn *pgxpool.Conn) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, createItemsSQL); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return tx.Commit(ctx)
}

// Ping реализует adapters.Adapter
func (a *Adapter) Ping(ctx context.Context) error {
	return a.withConn(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, "SELECT 1")
		return err
	})
}

// ListTables возвращает базовые таблицы схемы public по алфавиту
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	var tables []string
	err := a.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to get table names: %w", err)
		}
		tables, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		return nil
	})
	return tables, err
}

// ListItems реализует adapters.Adapter
func (a *Adapter) ListItems(ctx context.Context) ([]adapters.Item, error) {
	var items []adapters.Item
	err := a.withConn(ctx, func(conn *pgxpool.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}
		rows, err := conn.Query(ctx, "SELECT id, name, created_at FROM items ORDER BY id")
		if err != nil {
			return fmt.Errorf("failed to query items: %w", err)
		}
		maps, err := pgx.CollectRows(rows, pgx.RowToMap)
		if err != nil {
			return fmt.Errorf("failed to scan items: %w", err)
		}
		items = make([]adapters.Item, 0, len(maps))
		for _, m := range maps {
			items = append(items, adapters.ItemFromRow(m))
		}
		return nil
	})
	return items, err
}

// GetItem реализует adapters.Adapter
func (a *Adapter) GetItem(ctx context.Context, id int64) (adapters.Item, error) {
	var item adapters.Item
	err := a.withConn(ctx, func(conn *pgxpool.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}
		rows, err := conn.Query(ctx, "SELECT id, name, created_at FROM items WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to query item: %w", err)
		}
		m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
		if errors.Is(err, pgx.ErrNoRows) {
			return adapters.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item = adapters.ItemFromRow(m)
		return nil
	})
	return item, err
}

// CreateItem вставляет запись и возвращает ее через RETURNING
func (a *Adapter) CreateItem(ctx context.Context, name string) (adapters.Item, error) {
	var item adapters.Item
	err := a.withConn(ctx, func(conn *pgxpool.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx) //nolint:errcheck

		rows, err := tx.Query(ctx,
			"INSERT INTO items (name) VALUES ($1) RETURNING id, name, created_at", name)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
		if err != nil {
			return fmt.Errorf("failed to read inserted item: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		item = adapters.ItemFromRow(m)
		return nil
	})
	return item, err
}

// Close закрывает пул. Повторный вызов безопасен.
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}
