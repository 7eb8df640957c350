package sqlstore

import (
	"fmt"

	"github.com/ncobase/keyset/data/config"
)

// Dialect describes the SQL flavour of one database.
type Dialect struct {
	// Name is the data driver name, e.g. "postgres".
	Name string
	// DriverName is the database/sql driver name, e.g. "pgx".
	DriverName string
	// Flavor is the ent dialect used to render statements: placeholders
	// and identifier quoting follow it.
	Flavor string
	// ColumnTypes maps field types to column types.
	ColumnTypes map[string]string
	// KeyType is the column type of a string identity.
	KeyType string
	// NullsLast is set for databases that sort NULL after other values in
	// ascending order.
	NullsLast bool
	// InlineIndexes declares indexes inside CREATE TABLE.
	InlineIndexes bool
	// TimeAsUnixNano stores time fields as integer nanoseconds.
	TimeAsUnixNano bool
	// PrepareDSN rewrites the configured source before opening.
	PrepareDSN func(dsn string) (string, error)
	// SingleConn reports whether the source needs a single connection.
	SingleConn func(dsn string) bool
}

func (d *Dialect) columnType(fieldType string, key bool) (string, error) {
	if key && fieldType == config.FieldString && d.KeyType != "" {
		return d.KeyType, nil
	}
	t, ok := d.ColumnTypes[fieldType]
	if !ok {
		return "", fmt.Errorf("%s: unsupported field type %q", d.Name, fieldType)
	}
	return t, nil
}
