// Package mysql provides a MySQL record store.
//
// This driver uses go-sql-driver/mysql as the underlying database/sql driver.
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/keyset/data/mysql"
//
// Example DSN format:
//
//	user:pass@tcp(localhost:3306)/dbname
//
// parseTime is always enabled and times are read in UTC.
package mysql

import (
	"time"

	"entgo.io/ent/dialect"
	"github.com/go-sql-driver/mysql"
	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/data/sqlstore"
)

// Dialect is the MySQL flavour of SQL.
var Dialect = &sqlstore.Dialect{
	Name:       config.DriverMySQL,
	DriverName: "mysql",
	Flavor:     dialect.MySQL,
	ColumnTypes: map[string]string{
		config.FieldString: "VARCHAR(255)",
		config.FieldInt:    "BIGINT",
		config.FieldFloat:  "DOUBLE",
		config.FieldBool:   "BOOLEAN",
		config.FieldTime:   "DATETIME(6)",
	},
	KeyType:       "VARCHAR(64)",
	InlineIndexes: true,
	PrepareDSN:    prepareDSN,
}

// prepareDSN forces time.Time scanning in UTC.
func prepareDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// init registers the MySQL driver with the data package.
func init() {
	data.RegisterDriver(sqlstore.NewDriver(Dialect))
}
