package adapters

import (
	"fmt"
	"sort"
	"sync"
)

// AdapterConstructor - функция-конструктор адаптера.
// Возвращает адаптер, еще не подключенный к БД: подключение создается
// лениво при первой операции.
type AdapterConstructor func(cfg Config, rec Recorder) Adapter

// Factory - реестр конструкторов адаптеров по типу СУБД
type Factory struct {
	registry map[Kind]AdapterConstructor
	mu       sync.RWMutex
}

// NewFactory создает пустую фабрику
func NewFactory() *Factory {
	return &Factory{
		registry: make(map[Kind]AdapterConstructor),
	}
}

// Register регистрирует конструктор для типа СУБД.
//
// Пример (в pkg/adapters/postgres/adapter.go):
//
//	func init() {
//	    adapters.Register(adapters.KindPostgreSQL, New)
//	}
func (f *Factory) Register(kind Kind, constructor AdapterConstructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry[kind] = constructor
}

// Unregister удаляет конструктор
func (f *Factory) Unregister(kind Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.registry, kind)
}

// IsRegistered проверяет, зарегистрирован ли адаптер для типа
func (f *Factory) IsRegistered(kind Kind) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[kind]
	return ok
}

// GetRegisteredKinds возвращает отсортированный список зарегистрированных типов
func (f *Factory) GetRegisteredKinds() []Kind {
	f.mu.RLock()
	defer f.mu.RUnlock()

	kinds := make([]Kind, 0, len(f.registry))
	for k := range f.registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Create создает адаптер для типа kind. MariaDB ищется как MySQL.
func (f *Factory) Create(kind Kind, cfg Config, rec Recorder) (Adapter, error) {
	rec = OrDiscard(rec)

	f.mu.RLock()
	constructor, ok := f.registry[kind.Family()]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown database type: %q (available types: %v)",
			kind, f.GetRegisteredKinds())
	}
	return constructor(cfg, rec), nil
}

// ========== Global Factory ==========

var globalFactory = NewFactory()

// Register регистрирует адаптер в глобальной фабрике.
// Обычно вызывается из init() пакета адаптера.
func Register(kind Kind, constructor AdapterConstructor) {
	globalFactory.Register(kind, constructor)
}

// IsRegistered проверяет регистрацию в глобальной фабрике
func IsRegistered(kind Kind) bool {
	return globalFactory.IsRegistered(kind)
}

// GetRegisteredKinds возвращает типы из глобальной фабрики
func GetRegisteredKinds() []Kind {
	return globalFactory.GetRegisteredKinds()
}
