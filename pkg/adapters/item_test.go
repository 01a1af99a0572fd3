package adapters

import (
	"encoding/json"
	"testing"
	"time"
)

type fakeDateTime int64 // как bson.DateTime: миллисекунды Unix

func (d fakeDateTime) Time() time.Time { return time.UnixMilli(int64(d)) }

type stringer struct{}

func (stringer) String() string { return "stringer-value" }

func TestNormalizeTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 45, 123000000, time.FixedZone("KST", 9*3600))

	tests := []struct {
		name string
		in   any
		want *string
	}{
		{"nil", nil, nil},
		{"time in other zone", ts, strPtr("2025-03-01T03:30:45.123Z")},
		{"time pointer", &ts, strPtr("2025-03-01T03:30:45.123Z")},
		{"nil time pointer", (*time.Time)(nil), nil},
		{"bson-like datetime", fakeDateTime(0), strPtr("1970-01-01T00:00:00Z")},
		{"bytes", []byte("2025-01-01 00:00:00"), strPtr("2025-01-01 00:00:00")},
		{"string", "raw", strPtr("raw")},
		{"stringer", stringer{}, strPtr("stringer-value")},
		{"number", 42, strPtr("42")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTimestamp(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("NormalizeTimestamp() = %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("NormalizeTimestamp() = nil, want %q", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("NormalizeTimestamp() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestItemFromRow_SQLRow(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	item := ItemFromRow(map[string]any{"id": int32(7), "name": "widget", "created_at": created})

	if item.ID != 7 || item.Name != "widget" {
		t.Errorf("ItemFromRow() = %+v", item)
	}
	if item.CreatedAt == nil || *item.CreatedAt != "2025-01-02T03:04:05Z" {
		t.Errorf("CreatedAt = %v", item.CreatedAt)
	}
}

func TestItemFromRow_DocumentFallsBackToCreatedAt(t *testing.T) {
	item := ItemFromRow(map[string]any{"_id": "ignored", "id": float64(3), "name": "doc", "createdAt": "yesterday"})

	if item.ID != 3 || item.Name != "doc" {
		t.Errorf("ItemFromRow() = %+v", item)
	}
	if item.CreatedAt == nil || *item.CreatedAt != "yesterday" {
		t.Errorf("CreatedAt = %v, want yesterday", item.CreatedAt)
	}
}

func TestItemFromRow_MySQLTextProtocol(t *testing.T) {
	// текстовый протокол MySQL возвращает числа и строки как []byte
	item := ItemFromRow(map[string]any{"id": []byte("12"), "name": []byte("bytes")})
	if item.ID != 12 || item.Name != "bytes" || item.CreatedAt != nil {
		t.Errorf("ItemFromRow() = %+v", item)
	}
}

func TestItem_JSONShape(t *testing.T) {
	data, err := json.Marshal(Item{ID: 1, Name: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"id":1,"name":"a","createdAt":null}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestToInt64(t *testing.T) {
	for _, in := range []any{int64(5), int32(5), 5, float64(5), []byte("5"), "5"} {
		if got, ok := ToInt64(in); !ok || got != 5 {
			t.Errorf("ToInt64(%#v) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []any{nil, "x", true} {
		if _, ok := ToInt64(in); ok {
			t.Errorf("ToInt64(%#v) should fail", in)
		}
	}
}

func strPtr(s string) *string { return &s }
