package mongodb

import (
	"context"
	"fmt"

	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/paging"
	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a collection of records.
type Store struct {
	m          *Manager
	database   string
	collection string
	idField    string
}

// Open connects to the nodes of cfg.MongoDB and creates one compound
// (field, identity) index per configured field.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.MongoDB == nil || cfg.MongoDB.Master == nil || cfg.MongoDB.Master.URI == "" {
		return nil, fmt.Errorf("mongodb: master URI is empty")
	}
	m, err := NewManager(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to create manager: %w", err)
	}
	s := &Store{
		m:          m,
		database:   cfg.MongoDB.Database,
		collection: cfg.Collection,
		idField:    cfg.IDField,
	}
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = config.DefaultFields()
	}
	if err := s.ensureIndexes(ctx, fields); err != nil {
		logger.Warnf(ctx, "mongodb: failed to create indexes on %s: %v", s.collection, err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context, fields []*config.Field) error {
	var models []mongo.IndexModel
	for _, f := range fields {
		if f.Name == s.idField {
			continue
		}
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: f.Name, Value: 1}, {Key: s.idField, Value: 1}},
		})
	}
	if len(models) == 0 {
		return nil
	}
	_, err := s.m.Collection(s.database, s.collection, false).Indexes().CreateMany(ctx, models)
	return err
}

// Manager returns the connection manager.
func (s *Store) Manager() *Manager { return s.m }

// Scan implements paging.Scanner.
func (s *Store) Scan(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
	filter, err := Filter(q.Filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(Sort(q.Sort))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.m.Collection(s.database, s.collection, true).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	docs := make([]paging.Document, len(rows))
	for i, row := range rows {
		docs[i] = toDocument(row)
	}
	return docs, nil
}

// Insert adds docs. Records without an identity get an ObjectID when the
// identity field is _id and a ULID string otherwise.
func (s *Store) Insert(ctx context.Context, docs ...paging.Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, len(docs))
	for i, doc := range docs {
		if v, ok := doc[s.idField]; !ok || v == nil {
			doc[s.idField] = s.newID()
		}
		batch[i] = bson.M(doc)
	}
	_, err := s.m.Collection(s.database, s.collection, false).InsertMany(ctx, batch)
	return err
}

func (s *Store) newID() any {
	if s.idField == "_id" {
		return primitive.NewObjectID()
	}
	return ulid.Make().String()
}

// Ping implements paging.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return s.m.Health(ctx)
}

// Close disconnects all clients.
func (s *Store) Close(ctx context.Context) error {
	return s.m.Close(ctx)
}
