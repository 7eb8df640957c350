package mysql

import (
	"strings"
	"testing"

	"github.com/ncobase/keyset/data"
)

func TestDriverRegistered(t *testing.T) {
	d, err := data.GetDriver("mysql")
	if err != nil {
		t.Fatalf("GetDriver: %v", err)
	}
	if got := d.Name(); got != "mysql" {
		t.Errorf("Name() = %q, want %q", got, "mysql")
	}
}

func TestPrepareDSN(t *testing.T) {
	dsn, err := prepareDSN("user:pass@tcp(localhost:3306)/app")
	if err != nil {
		t.Fatalf("prepareDSN: %v", err)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime in %q", dsn)
	}
	if _, err := prepareDSN("user:pass@tcp(localhost:3306"); err == nil {
		t.Error("expected error for malformed DSN")
	}
}
