package adapters

import (
	"context"
	"encoding/json"
	"fmt"
)

// notConfiguredMessage возвращается в /api/tables, пока БД не настроена
const notConfiguredMessage = "database is not configured: set DB_TYPE, DB_HOST, DB_NAME (or DB_PORT for type inference)"

// TablesResult - результат ListTables в виде, который отдается клиенту как есть:
// либо {"tables": [...]}, либо {"error": "..."}.
type TablesResult struct {
	Tables []string
	Error  string
}

// MarshalJSON отдает ровно одно из полей; пустой список сериализуется как [].
func (r TablesResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	tables := r.Tables
	if tables == nil {
		tables = []string{}
	}
	return json.Marshal(map[string][]string{"tables": tables})
}

// Dispatcher выбирает адаптер один раз при создании и направляет в него
// все операции. Если конфигурация неполная, адаптер не создается и
// операции возвращают ErrNotConfigured без попыток подключения.
type Dispatcher struct {
	cfg     Config
	kind    Kind
	adapter Adapter
}

// NewDispatcher создает диспетчер на глобальной фабрике
func NewDispatcher(cfg Config, rec Recorder) (*Dispatcher, error) {
	return NewDispatcherFrom(globalFactory, cfg, rec)
}

// NewDispatcherFrom создает диспетчер на заданной фабрике
func NewDispatcherFrom(f *Factory, cfg Config, rec Recorder) (*Dispatcher, error) {
	d := &Dispatcher{cfg: cfg, kind: ResolveKind(cfg)}
	if !IsConfigured(cfg) {
		return d, nil
	}

	adapter, err := f.Create(d.kind, cfg, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter: %w", d.kind, err)
	}
	d.adapter = adapter
	return d, nil
}

// Kind возвращает определенный тип СУБД (может быть "", если не определен)
func (d *Dispatcher) Kind() Kind {
	return d.kind
}

// Configured - есть активный адаптер
func (d *Dispatcher) Configured() bool {
	return d.adapter != nil
}

// Config возвращает снимок конфигурации
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Ping проверяет доступность БД
func (d *Dispatcher) Ping(ctx context.Context) error {
	if d.adapter == nil {
		return ErrNotConfigured
	}
	return d.adapter.Ping(ctx)
}

// Tables никогда не возвращает ошибку: ошибки драйвера превращаются в
// TablesResult{Error: ...}.
func (d *Dispatcher) Tables(ctx context.Context) TablesResult {
	if d.adapter == nil {
		return TablesResult{Error: notConfiguredMessage}
	}
	tables, err := d.adapter.ListTables(ctx)
	if err != nil {
		return TablesResult{Error: err.Error()}
	}
	return TablesResult{Tables: tables}
}

// Items возвращает все items. Ошибки драйвера не перехватываются.
func (d *Dispatcher) Items(ctx context.Context) ([]Item, error) {
	if d.adapter == nil {
		return nil, ErrNotConfigured
	}
	return d.adapter.ListItems(ctx)
}

// Item возвращает item по id (ErrNotFound, если нет)
func (d *Dispatcher) Item(ctx context.Context, id int64) (Item, error) {
	if d.adapter == nil {
		return Item{}, ErrNotConfigured
	}
	return d.adapter.GetItem(ctx, id)
}

// Create создает item
func (d *Dispatcher) Create(ctx context.Context, name string) (Item, error) {
	if d.adapter == nil {
		return Item{}, ErrNotConfigured
	}
	return d.adapter.CreateItem(ctx, name)
}

// Close закрывает активный адаптер
func (d *Dispatcher) Close(ctx context.Context) error {
	if d.adapter == nil {
		return nil
	}
	return d.adapter.Close(ctx)
}
