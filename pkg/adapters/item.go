package adapters

import (
	"fmt"
	"strconv"
	"time"
)

// Item - каноническое представление записи, одинаковое для всех бэкендов
type Item struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"createdAt"`
}

// ItemFromRow приводит строку таблицы или документ к Item.
// Метка времени берется из created_at (SQL), иначе из createdAt (MongoDB).
func ItemFromRow(row map[string]any) Item {
	created := row["created_at"]
	if created == nil {
		created = row["createdAt"]
	}
	id, _ := ToInt64(row["id"])
	return Item{
		ID:        id,
		Name:      toString(row["name"]),
		CreatedAt: NormalizeTimestamp(created),
	}
}

// NormalizeTimestamp форматирует время как ISO-8601 (UTC, суффикс Z),
// прочие значения приводит к строке, nil оставляет nil.
func NormalizeTimestamp(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		s = formatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		s = formatTime(*t)
	case interface{ Time() time.Time }: // bson.DateTime
		s = formatTime(t.Time())
	case []byte:
		s = string(t)
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToInt64 извлекает целое из значений, которые возвращают драйверы:
// int*/float64 (BSON), []byte/string (текстовый протокол MySQL).
func ToInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
