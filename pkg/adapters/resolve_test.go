package adapters

import "testing"

func TestParseKind_Normalizes(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"POSTGRESQL", KindPostgreSQL},
		{"postgresql", KindPostgreSQL},
		{"  PostgreSQL\t", KindPostgreSQL},
		{"mysql", KindMySQL},
		{" MySql ", KindMySQL},
		{"mariadb", KindMariaDB},
		{"MariaDB\n", KindMariaDB},
		{"mongodb", KindMongoDB},
		{" MONGODB", KindMongoDB},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q, true", tt.in, got, ok, tt.want)
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	for _, in := range []string{"", "   ", "postgres", "sqlite", "mongo", "MSSQL"} {
		if got, ok := ParseKind(in); ok || got != "" {
			t.Errorf("ParseKind(%q) = %q, %v; want \"\", false", in, got, ok)
		}
	}
}

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Kind
	}{
		{"explicit type", Config{Type: "mariadb"}, KindMariaDB},
		{"explicit type wins over port", Config{Type: "MONGODB", Port: "5432"}, KindMongoDB},
		{"port 5432", Config{Port: "5432"}, KindPostgreSQL},
		{"port 3306", Config{Port: "3306"}, KindMySQL},
		{"port 27017", Config{Port: "27017"}, KindMongoDB},
		{"port with spaces", Config{Port: " 3306 "}, KindMySQL},
		{"unknown type falls back to port", Config{Type: "oracle", Port: "27017"}, KindMongoDB},
		{"unknown port", Config{Port: "1521"}, ""},
		{"non-numeric port", Config{Port: "abc"}, ""},
		{"unknown type, no port", Config{Type: "oracle"}, ""},
		{"nothing set", Config{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveKind(tt.cfg); got != tt.want {
				t.Errorf("ResolveKind(%+v) = %q, want %q", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestIsConfigured(t *testing.T) {
	full := Config{Type: "POSTGRESQL", Host: "db", Database: "app"}

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"complete", full, true},
		{"type from port", Config{Port: "27017", Host: "db", Database: "app"}, true},
		{"no type", Config{Host: "db", Database: "app"}, false},
		{"no host", Config{Type: "MYSQL", Database: "app"}, false},
		{"no database", Config{Type: "MYSQL", Host: "db"}, false},
		{"unknown port", Config{Port: "1", Host: "db", Database: "app"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigured(tt.cfg); got != tt.want {
				t.Errorf("IsConfigured(%+v) = %v, want %v", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestKind_FamilyAndLabel(t *testing.T) {
	if KindMariaDB.Family() != KindMySQL {
		t.Errorf("MARIADB.Family() = %q, want MYSQL", KindMariaDB.Family())
	}
	if KindPostgreSQL.Family() != KindPostgreSQL {
		t.Errorf("POSTGRESQL.Family() = %q", KindPostgreSQL.Family())
	}
	if got := KindMariaDB.Label(); got != "MySQL/MariaDB" {
		t.Errorf("MARIADB.Label() = %q", got)
	}
	if got := Kind("").Label(); got != "(none)" {
		t.Errorf(`"".Label() = %q`, got)
	}
}

func TestConfig_PortNumber(t *testing.T) {
	if got := (Config{}).PortNumber(5432); got != 5432 {
		t.Errorf("empty port = %d, want default", got)
	}
	if got := (Config{Port: "6543"}).PortNumber(5432); got != 6543 {
		t.Errorf("PortNumber = %d, want 6543", got)
	}
	if got := (Config{Port: "x"}).PortNumber(3306); got != 3306 {
		t.Errorf("invalid port = %d, want default", got)
	}
}
