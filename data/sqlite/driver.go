// Package sqlite provides a SQLite record store.
//
// This driver uses mattn/go-sqlite3 (github.com/mattn/go-sqlite3) as the underlying
// database/sql driver with CGO. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/keyset/data/sqlite"
//
// Example connection strings:
//
//	"file:test.db?cache=shared&mode=rwc"        // URI format with options
//	"test.db"                                     // Simple file path
//	":memory:"                                    // In-memory database
//
// Time fields are stored as integer nanoseconds so they compare numerically.
// In-memory databases are limited to one connection, since every new
// connection would open an empty database.
package sqlite

import (
	"strings"

	"entgo.io/ent/dialect"
	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/data/sqlstore"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Dialect is the SQLite flavour of SQL.
var Dialect = &sqlstore.Dialect{
	Name:       config.DriverSQLite,
	DriverName: "sqlite3",
	Flavor:     dialect.SQLite,
	ColumnTypes: map[string]string{
		config.FieldString: "TEXT",
		config.FieldInt:    "INTEGER",
		config.FieldFloat:  "REAL",
		config.FieldBool:   "BOOLEAN",
		config.FieldTime:   "INTEGER",
	},
	TimeAsUnixNano: true,
	SingleConn:     isMemory,
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// init registers the SQLite driver with the data package.
func init() {
	data.RegisterDriver(sqlstore.NewDriver(Dialect))
}
