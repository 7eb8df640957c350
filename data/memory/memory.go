// Package memory provides an in-process record store driver.
//
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/keyset/data/memory"
//
// The store evaluates filters and sort keys the same way the database stores
// do, which makes it the reference Scanner for tests and demos.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
	"github.com/oklog/ulid/v2"
)

// ErrDuplicateID is returned when an inserted record reuses an identity.
var ErrDuplicateID = errors.New("memory: duplicate identity")

// Store keeps records in a slice guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	idField string
	docs    []paging.Document
	ids     map[string]int
}

// New returns an empty store keyed by idField.
func New(idField string) *Store {
	if idField == "" {
		idField = paging.DefaultIDField
	}
	return &Store{idField: idField, ids: make(map[string]int)}
}

// NewID returns a fresh lexicographically sortable identity.
func NewID() string {
	return ulid.Make().String()
}

func idKey(id any) string {
	return fmt.Sprintf("%T:%v", id, id)
}

// Scan returns the records matching q.Filter in q.Sort order, at most
// q.Limit of them.
func (s *Store) Scan(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, errors.New("memory: nil query")
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("memory: negative limit %d", q.Limit)
	}
	if err := paging.ValidateExpr(q.Filter); err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	s.mu.RLock()
	matched := make([]paging.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if paging.Match(q.Filter, d) {
			matched = append(matched, clone(d))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return paging.Less(q.Sort, matched[i], matched[j])
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Insert adds docs. Records without an identity get a ULID.
func (s *Store) Insert(ctx context.Context, docs ...paging.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(docs))
	prepared := make([]paging.Document, 0, len(docs))
	for _, d := range docs {
		d = clone(d)
		if id, ok := d[s.idField]; !ok || id == nil {
			d[s.idField] = NewID()
		}
		key := idKey(d[s.idField])
		if _, dup := s.ids[key]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateID, d[s.idField])
		}
		if _, dup := batch[key]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateID, d[s.idField])
		}
		batch[key] = struct{}{}
		prepared = append(prepared, d)
	}
	for _, d := range prepared {
		s.ids[idKey(d[s.idField])] = len(s.docs)
		s.docs = append(s.docs, d)
	}
	return nil
}

// Delete removes the record with the given identity and reports whether it
// existed.
func (s *Store) Delete(ctx context.Context, id any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.ids[idKey(id)]
	if !ok {
		return false, nil
	}
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	delete(s.ids, idKey(id))
	for i := idx; i < len(s.docs); i++ {
		s.ids[idKey(s.docs[i][s.idField])] = i
	}
	return true, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

func clone(d paging.Document) paging.Document {
	out := make(paging.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// driver implements data.Driver for the in-memory store.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.DriverMemory
}

// Open returns an empty store.
func (d *driver) Open(_ context.Context, cfg *config.Config) (data.Store, error) {
	return New(cfg.IDField), nil
}

func init() {
	data.RegisterDriver(&driver{})
}
