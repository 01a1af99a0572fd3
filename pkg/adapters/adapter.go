package adapters

import (
	"context"
	"errors"
	"strconv"
)

// Ошибки уровня адаптеров. Вызывающий код сравнивает через errors.Is.
var (
	// ErrNotConfigured - тип БД не определен, либо не заданы host/database
	ErrNotConfigured = errors.New("database is not configured")

	// ErrNotFound - запрошенный item отсутствует
	ErrNotFound = errors.New("item not found")
)

// Config - неизменяемый снимок параметров подключения к БД.
// Заполняется один раз при старте процесса (из окружения) и больше не меняется.
type Config struct {
	// Type - явный тип СУБД: POSTGRESQL | MYSQL | MARIADB | MONGODB (или пусто)
	Type string

	Host string

	// Port хранится строкой: он используется и для подключения, и для
	// определения типа СУБД, а нечисловое значение не должно ломать старт
	Port string

	Database string
	User     string
	Password string
}

// PortNumber возвращает числовой порт или def, если порт не задан или не число
func (c Config) PortNumber(def int) int {
	if c.Port == "" {
		return def
	}
	p, err := strconv.Atoi(c.Port)
	if err != nil {
		return def
	}
	return p
}

// Recorder принимает диагностические сообщения о подключениях
// (попытки подключения, ошибки). Реализуется diaglog.Ring.
type Recorder interface {
	Record(msg string, isError bool)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, bool) {}

// OrDiscard возвращает rec или Recorder, отбрасывающий сообщения, если rec == nil
func OrDiscard(rec Recorder) Recorder {
	if rec == nil {
		return nopRecorder{}
	}
	return rec
}

// Adapter - единый интерфейс для всех бэкендов (PostgreSQL, MySQL/MariaDB, MongoDB).
// Вызывающий код никогда не видит типы конкретного драйвера: все строки и
// документы приводятся к Item.
type Adapter interface {
	// Kind возвращает тип СУБД, для которого создан адаптер
	Kind() Kind

	// Ping выполняет минимальный запрос к БД (SELECT 1 / команда ping)
	Ping(ctx context.Context) error

	// ListTables возвращает имена таблиц (коллекций)
	ListTables(ctx context.Context) ([]string, error)

	// ListItems возвращает все items, отсортированные по id
	ListItems(ctx context.Context) ([]Item, error)

	// GetItem возвращает item по id или ErrNotFound
	GetItem(ctx context.Context, id int64) (Item, error)

	// CreateItem создает item и возвращает его в каноническом виде
	CreateItem(ctx context.Context, name string) (Item, error)

	// Close освобождает пул/клиент. Повторный вызов допустим.
	Close(ctx context.Context) error
}
