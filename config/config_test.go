package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func fromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(fromYAML(t, "app_name: demo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppName != "demo" || cfg.RunMode != "release" {
		t.Errorf("unexpected app settings: %+v", cfg)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" || cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected server: %+v", cfg.Server)
	}
	if cfg.Data.Driver != "memory" {
		t.Errorf("driver = %q", cfg.Data.Driver)
	}
	p := cfg.Paging
	if p.DefaultLimit != 10 || p.MaxLimit != 100 || p.DefaultSortField != "createdAt" || p.IDField != "_id" {
		t.Errorf("unexpected paging defaults: %+v", p)
	}
}

func TestLoadPaging(t *testing.T) {
	cfg, err := Load(fromYAML(t, `
data:
  driver: sqlite
  id_field: id
paging:
  default_limit: 20
  max_limit: 50
  default_sort_field: name
  sortable_fields: [name, createdAt]
  cursor_secret: s3cret
`))
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Paging
	if p.DefaultLimit != 20 || p.MaxLimit != 50 || p.DefaultSortField != "name" || p.CursorSecret != "s3cret" {
		t.Errorf("unexpected paging: %+v", p)
	}
	if p.IDField != "id" {
		t.Errorf("id field = %q, want the store's", p.IDField)
	}
	if len(p.SortableFields) != 2 {
		t.Errorf("sortable = %v", p.SortableFields)
	}
}

func TestLoadRejectsUnknownPagingKeys(t *testing.T) {
	_, err := Load(fromYAML(t, "paging:\n  default_limt: 5\n"))
	if err == nil || !strings.Contains(err.Error(), "default_limt") {
		t.Fatalf("err = %v, want unknown key error", err)
	}
}

func TestLoadRejectsInvalidPaging(t *testing.T) {
	tests := map[string]string{
		"default above max":    "paging:\n  default_limit: 200\n  max_limit: 100\n",
		"zero max":             "paging:\n  max_limit: 0\n",
		"default not sortable": "paging:\n  sortable_fields: [name]\n",
		"identity mismatch":    "data:\n  id_field: id\npaging:\n  id_field: _id\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(fromYAML(t, doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KEYSET_SERVER_HOST", "127.0.0.1")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("addr = %q", got)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
