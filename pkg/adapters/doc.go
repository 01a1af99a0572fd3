/*
Package adapters предоставляет единый набор операций над items поверх
разных СУБД: PostgreSQL, MySQL/MariaDB и MongoDB.

# Архитектура

	┌───────────────────────────────────────┐
	│   HTTP API (internal/api)             │
	└─────────────────┬─────────────────────┘
	                  │
	┌─────────────────▼─────────────────────┐
	│   Dispatcher                          │  ← pkg/adapters/dispatcher.go
	│   ResolveKind → Factory.Create        │
	└─────────────────┬─────────────────────┘
	                  │
	        ┌─────────┼──────────┐
	        │         │          │
	┌───────▼────┐ ┌──▼──────┐ ┌─▼───────┐
	│ PostgreSQL │ │ MySQL   │ │ MongoDB │  ← pkg/adapters/{postgres,mysql,mongodb}
	│ pgxpool    │ │ per-op  │ │ client  │
	└────────────┘ └─────────┘ └─────────┘

# Определение типа СУБД

DB_TYPE (POSTGRESQL, MYSQL, MARIADB, MONGODB; регистр не важен) имеет приоритет.
Если он не задан или неизвестен, тип определяется по DB_PORT:

	5432  → POSTGRESQL
	3306  → MYSQL
	27017 → MONGODB

# Канонический Item

Каждый адаптер возвращает Item{id, name, createdAt}. Метки времени
форматируются как ISO-8601 в UTC с суффиксом Z; отсутствующая метка - null.

# Использование

Адаптеры регистрируются в init() своих пакетов, поэтому достаточно
импортировать их ради побочного эффекта:

	import (
	    "github.com/ruslano69/itemgate/pkg/adapters"
	    _ "github.com/ruslano69/itemgate/pkg/adapters/mongodb"
	    _ "github.com/ruslano69/itemgate/pkg/adapters/mysql"
	    _ "github.com/ruslano69/itemgate/pkg/adapters/postgres"
	)

	d, err := adapters.NewDispatcher(cfg, ring)
	if err != nil {
	    log.Fatal(err)
	}
	defer d.Close(ctx)

	items, err := d.Items(ctx)

# Известные ограничения

MongoDB-адаптер назначает id как max(id)+1. Операция не атомарна: при
параллельном создании возможны дубликаты id.
*/
package adapters
