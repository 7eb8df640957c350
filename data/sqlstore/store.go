// Package sqlstore runs keyset scans against relational databases. Statements
// are built with entgo.io/ent/dialect/sql and executed on database/sql pools.
// Dialect packages (postgres, mysql, sqlite) register a driver built from this
// package.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/paging"
	"github.com/oklog/ulid/v2"
)

// Store is a table of records.
type Store struct {
	b       *builder
	master  *sql.DB
	slaves  []*sql.DB
	random  bool
	next    atomic.Uint64
	logging bool
}

// insertBatch bounds the rows of one INSERT statement.
const insertBatch = 200

// Open connects the master and slave nodes of cfg.Database and, when
// migration is enabled, creates the table.
func Open(ctx context.Context, d *Dialect, cfg *config.Config) (*Store, error) {
	if cfg.Database == nil || cfg.Database.Master == nil || cfg.Database.Master.Source == "" {
		return nil, fmt.Errorf("%s: connection source is empty", d.Name)
	}
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = config.DefaultFields()
	}
	b, err := newBuilder(d, cfg.Collection, cfg.IDField, fields)
	if err != nil {
		return nil, err
	}

	master, err := openDB(ctx, d, cfg.Database.Master)
	if err != nil {
		return nil, err
	}
	s := &Store{
		b:       b,
		master:  master,
		random:  cfg.Database.Strategy == "random",
		logging: cfg.Database.Master.Logging,
	}
	for i, node := range cfg.Database.Slaves {
		db, err := openDB(ctx, d, node)
		if err != nil {
			logger.Warnf(ctx, "%s: skipping slave %d: %v", d.Name, i, err)
			continue
		}
		s.slaves = append(s.slaves, db)
	}

	if cfg.Database.Migrate {
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

func openDB(ctx context.Context, d *Dialect, node *config.DBNode) (*sql.DB, error) {
	dsn := node.Source
	if d.PrepareDSN != nil {
		var err error
		if dsn, err = d.PrepareDSN(dsn); err != nil {
			return nil, fmt.Errorf("%s: invalid source: %w", d.Name, err)
		}
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", d.Name, err)
	}

	if node.MaxIdleConn > 0 {
		db.SetMaxIdleConns(node.MaxIdleConn)
	}
	if node.MaxOpenConn > 0 {
		db.SetMaxOpenConns(node.MaxOpenConn)
	}
	if d.SingleConn != nil && d.SingleConn(dsn) {
		db.SetMaxOpenConns(1)
	}
	if node.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(node.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", d.Name, err)
	}
	return db, nil
}

// reader picks the connection used for scans.
func (s *Store) reader() *sql.DB {
	switch n := len(s.slaves); {
	case n == 0:
		return s.master
	case s.random:
		return s.slaves[rand.Intn(n)]
	default:
		return s.slaves[s.next.Add(1)%uint64(n)]
	}
}

// Migrate creates the table and its (field, id) indexes if missing.
func (s *Store) Migrate(ctx context.Context) error {
	stmts, err := s.b.createSQL()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := s.master.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: migrate: %w", s.b.dialect.Name, err)
		}
	}
	return nil
}

// Scan runs q as a single SELECT.
func (s *Store) Scan(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
	if q == nil {
		return nil, errors.New("sqlstore: nil query")
	}
	query, args, err := s.b.selectSQL(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.b.dialect.Name, err)
	}
	if s.logging {
		logger.Debug(ctx, "sql scan", "query", query, "args", args)
	}

	rows, err := s.reader().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]paging.Document, 0, q.Limit)
	for rows.Next() {
		doc, err := s.scanRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) scanRow(rows *sql.Rows) (paging.Document, error) {
	dest := make([]any, len(s.b.columns))
	for i, c := range s.b.columns {
		switch c.Type {
		case config.FieldInt:
			dest[i] = new(sql.NullInt64)
		case config.FieldFloat:
			dest[i] = new(sql.NullFloat64)
		case config.FieldBool:
			dest[i] = new(sql.NullBool)
		case config.FieldTime:
			if s.b.dialect.TimeAsUnixNano {
				dest[i] = new(sql.NullInt64)
			} else {
				dest[i] = new(sql.NullTime)
			}
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	doc := make(paging.Document, len(dest))
	for i, c := range s.b.columns {
		var v any
		switch x := dest[i].(type) {
		case *sql.NullInt64:
			if x.Valid {
				v = x.Int64
				if c.Type == config.FieldTime {
					v = time.Unix(0, x.Int64).UTC()
				}
			}
		case *sql.NullFloat64:
			if x.Valid {
				v = x.Float64
			}
		case *sql.NullBool:
			if x.Valid {
				v = x.Bool
			}
		case *sql.NullTime:
			if x.Valid {
				v = x.Time.UTC()
			}
		case *sql.NullString:
			if x.Valid {
				v = x.String
			}
		}
		doc[c.Name] = v
	}
	return doc, nil
}

// Insert writes docs in one transaction. Records without an identity get a
// ULID when the identity column holds strings.
func (s *Store) Insert(ctx context.Context, docs ...paging.Document) error {
	idField := s.b.idField
	rows := make([]paging.Document, len(docs))
	for i, doc := range docs {
		if id, ok := doc[idField]; !ok || id == nil {
			if s.b.byName[idField].Type != config.FieldString {
				return fmt.Errorf("%s: record has no %q", s.b.dialect.Name, idField)
			}
			doc = cloneWith(doc, idField, ulid.Make().String())
		}
		rows[i] = doc
	}

	tx, err := s.master.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		query, args, err := s.b.insertSQL(rows[start:end])
		if err != nil {
			return fmt.Errorf("%s: insert: %w", s.b.dialect.Name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: insert: %w", s.b.dialect.Name, err)
		}
	}
	return tx.Commit()
}

func cloneWith(d paging.Document, k string, v any) paging.Document {
	out := make(paging.Document, len(d)+1)
	for key, val := range d {
		out[key] = val
	}
	out[k] = v
	return out
}

// Ping checks the master connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.master.PingContext(ctx)
}

// Close closes every connection pool.
func (s *Store) Close(context.Context) error {
	var errs []error
	if err := s.master.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing master connection: %w", err))
	}
	for i, db := range s.slaves {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing slave %d connection: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// driver adapts a Dialect to data.Driver.
type driver struct {
	d *Dialect
}

// NewDriver returns a data.Driver opening stores with d.
func NewDriver(d *Dialect) data.Driver {
	return &driver{d: d}
}

// Name returns the driver identifier used in configuration files.
func (dr *driver) Name() string {
	return dr.d.Name
}

// Open returns a Store for cfg.
func (dr *driver) Open(ctx context.Context, cfg *config.Config) (data.Store, error) {
	return Open(ctx, dr.d, cfg)
}
