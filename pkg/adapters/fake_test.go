package adapters

import (
	"context"
	"errors"
	"sync"
)

// fakeAdapter - адаптер в памяти для тестов диспетчера
type fakeAdapter struct {
	mu      sync.Mutex
	kind    Kind
	items   []Item
	tables  []string
	err     error // возвращается всеми операциями, если задан
	calls   int
	closed  bool
}

func (f *fakeAdapter) Kind() Kind { return f.kind }

func (f *fakeAdapter) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeAdapter) ListTables(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tables, f.err
}

func (f *fakeAdapter) ListItems(context.Context) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]Item(nil), f.items...), nil
}

func (f *fakeAdapter) GetItem(_ context.Context, id int64) (Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Item{}, f.err
	}
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (f *fakeAdapter) CreateItem(_ context.Context, name string) (Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Item{}, f.err
	}
	it := Item{ID: int64(len(f.items) + 1), Name: name}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeAdapter) Close(context.Context) error {
	f.closed = true
	return nil
}

var errBoom = errors.New("boom")

// newFakeFactory регистрирует один и тот же fakeAdapter для всех типов
func newFakeFactory(fake *fakeAdapter) *Factory {
	f := NewFactory()
	for _, k := range []Kind{KindPostgreSQL, KindMySQL, KindMongoDB} {
		kind := k
		f.Register(kind, func(cfg Config, rec Recorder) Adapter {
			fake.kind = kind
			rec.Record("connect "+string(kind), false)
			return fake
		})
	}
	return f
}
