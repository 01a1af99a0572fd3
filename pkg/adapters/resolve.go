package adapters

import (
	"strconv"
	"strings"
)

// Kind - тип СУБД. Пустое значение означает "тип не определен".
type Kind string

const (
	KindPostgreSQL Kind = "POSTGRESQL"
	KindMySQL      Kind = "MYSQL"
	KindMariaDB    Kind = "MARIADB"
	KindMongoDB    Kind = "MONGODB"
)

// Kinds - все поддерживаемые значения DB_TYPE
var Kinds = []Kind{KindPostgreSQL, KindMySQL, KindMariaDB, KindMongoDB}

// portKinds - определение типа по стандартному порту, если DB_TYPE не задан
var portKinds = map[int]Kind{
	5432:  KindPostgreSQL,
	3306:  KindMySQL,
	27017: KindMongoDB,
}

// Family возвращает тип, под которым зарегистрирован адаптер.
// MySQL и MariaDB обслуживаются одним адаптером.
func (k Kind) Family() Kind {
	if k == KindMariaDB {
		return KindMySQL
	}
	return k
}

// Label - человекочитаемое имя для логов
func (k Kind) Label() string {
	switch k {
	case KindPostgreSQL:
		return "PostgreSQL"
	case KindMySQL, KindMariaDB:
		return "MySQL/MariaDB"
	case KindMongoDB:
		return "MongoDB"
	default:
		return "(none)"
	}
}

// ParseKind нормализует строку (trim + upper) и проверяет, что это один из Kinds
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// ResolveKind определяет тип СУБД:
//  1. явный Type, если он один из Kinds (регистр и пробелы не важны);
//  2. иначе - по числовому Port через таблицу стандартных портов;
//  3. иначе - тип не определен ("").
func ResolveKind(cfg Config) Kind {
	if k, ok := ParseKind(cfg.Type); ok {
		return k
	}
	port, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil {
		return ""
	}
	return portKinds[port]
}

// IsConfigured - тип определен и заданы host и имя БД
func IsConfigured(cfg Config) bool {
	if ResolveKind(cfg) == "" {
		return false
	}
	return cfg.Host != "" && cfg.Database != ""
}
