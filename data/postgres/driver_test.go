package postgres

import (
	"testing"

	"entgo.io/ent/dialect"
	"github.com/ncobase/keyset/data"
)

func TestDriverRegistered(t *testing.T) {
	d, err := data.GetDriver("postgres")
	if err != nil {
		t.Fatalf("GetDriver: %v", err)
	}
	if got := d.Name(); got != "postgres" {
		t.Errorf("Name() = %q, want %q", got, "postgres")
	}
}

func TestDialect(t *testing.T) {
	if Dialect.Flavor != dialect.Postgres {
		t.Errorf("Flavor = %q, want %q", Dialect.Flavor, dialect.Postgres)
	}
	if !Dialect.NullsLast {
		t.Error("postgres sorts NULL last in ascending order")
	}
	if Dialect.TimeAsUnixNano {
		t.Error("postgres stores times as TIMESTAMPTZ")
	}
}
