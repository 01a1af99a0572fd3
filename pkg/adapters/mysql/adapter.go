package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/ruslano69/itemgate/pkg/adapters"
)

// Compile-time check
var _ adapters.Adapter = (*Adapter)(nil)

const defaultPort = 3306

const createItemsSQL = `
	CREATE TABLE IF NOT EXISTS items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
	)
`

func init() {
	// MariaDB резолвится в MySQL через Kind.Family()
	adapters.Register(adapters.KindMySQL, New)
}

// Adapter реализует adapters.Adapter для MySQL/MariaDB.
// Пула нет: на каждую операцию открывается одно соединение и
// закрывается после нее.
type Adapter struct {
	cfg adapters.Config
	dsn string
}

// New создает адаптер без подключения к БД
func New(cfg adapters.Config, _ adapters.Recorder) adapters.Adapter {
	return &Adapter{cfg: cfg, dsn: DSN(cfg)}
}

// DSN строит строку подключения go-sql-driver/mysql.
// ParseTime включен, чтобы DATETIME приходил как time.Time.
func DSN(cfg adapters.Config) string {
	c := gomysql.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.PortNumber(defaultPort)))
	c.DBName = cfg.Database
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.ParseTime = true
	return c.FormatDSN()
}

// Kind реализует adapters.Adapter
func (a *Adapter) Kind() adapters.Kind {
	return adapters.KindMySQL
}

// withConn открывает одно соединение на время fn и закрывает его
// на любом пути выхода
func (a *Adapter) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	db, err := sql.Open("mysql", a.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

func ensureItems(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, createItemsSQL); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

// Ping выполняет SELECT 1
func (a *Adapter) Ping(ctx context.Context) error {
	return a.withConn(ctx, func(conn *sql.Conn) error {
		var one int
		return conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
}

// ListTables возвращает таблицы текущей БД. В MySQL схема = база данных,
// поэтому запрос параметризуется именем БД.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	var tables []string
	err := a.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, a.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to query tables: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var table string
			if err := rows.Scan(&table); err != nil {
				return fmt.Errorf("failed to scan table name: %w", err)
			}
			tables = append(tables, table)
		}
		return rows.Err()
	})
	return tables, err
}

// scanItem читает строку (id, name, created_at) в map и приводит к Item
func scanItem(scan func(dest ...any) error) (adapters.Item, error) {
	var (
		id      int64
		name    string
		created any
	)
	if err := scan(&id, &name, &created); err != nil {
		return adapters.Item{}, err
	}
	return adapters.ItemFromRow(map[string]any{
		"id":         id,
		"name":       name,
		"created_at": created,
	}), nil
}

// ListItems реализует adapters.Adapter
func (a *Adapter) ListItems(ctx context.Context) ([]adapters.Item, error) {
	var items []adapters.Item
	err := a.withConn(ctx, func(conn *sql.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}
		rows, err := conn.QueryContext(ctx, "SELECT id, name, created_at FROM items ORDER BY id")
		if err != nil {
			return fmt.Errorf("failed to query items: %w", err)
		}
		defer rows.Close()

		items = []adapters.Item{}
		for rows.Next() {
			item, err := scanItem(rows.Scan)
			if err != nil {
				return fmt.Errorf("failed to scan item: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	return items, err
}

func selectItem(ctx context.Context, conn *sql.Conn, id int64) (adapters.Item, error) {
	row := conn.QueryRowContext(ctx, "SELECT id, name, created_at FROM items WHERE id = ?", id)
	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return adapters.Item{}, adapters.ErrNotFound
	}
	if err != nil {
		return adapters.Item{}, fmt.Errorf("failed to scan item: %w", err)
	}
	return item, nil
}

// GetItem реализует adapters.Adapter
func (a *Adapter) GetItem(ctx context.Context, id int64) (adapters.Item, error) {
	var item adapters.Item
	err := a.withConn(ctx, func(conn *sql.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}
		var err error
		item, err = selectItem(ctx, conn, id)
		return err
	})
	return item, err
}

// CreateItem - два запроса: INSERT (MySQL не умеет RETURNING) и
// SELECT по LAST_INSERT_ID на том же соединении
func (a *Adapter) CreateItem(ctx context.Context, name string) (adapters.Item, error) {
	var item adapters.Item
	err := a.withConn(ctx, func(conn *sql.Conn) error {
		if err := ensureItems(ctx, conn); err != nil {
			return err
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		res, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		insertID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get insert id: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}

		item, err = selectItem(ctx, conn, insertID)
		return err
	})
	return item, err
}

// Close - соединения не удерживаются между операциями
func (a *Adapter) Close(context.Context) error {
	return nil
}
