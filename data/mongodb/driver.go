// Package mongodb provides a MongoDB record store.
//
// This driver uses mongo-driver (go.mongodb.org/mongo-driver) as the underlying client.
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/keyset/data/mongodb"
//
// The store reads from slave nodes chosen by a load balancing strategy
// (round_robin, random, weight) and writes to the master. ObjectID
// identities survive the cursor round trip.
//
// Example configuration:
//
//	data:
//	  driver: mongodb
//	  collection: records
//	  mongodb:
//	    database: keyset
//	    master:
//	      uri: mongodb://localhost:27017
//	    slaves:
//	      - uri: mongodb://slave1:27017
//	        weight: 2
//	    strategy: round_robin
package mongodb

import (
	"context"

	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/config"
)

// driver implements data.Driver for MongoDB.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.DriverMongoDB
}

// Open connects to MongoDB using cfg.MongoDB.
func (d *driver) Open(ctx context.Context, cfg *config.Config) (data.Store, error) {
	return Open(ctx, cfg)
}

// init registers the MongoDB driver with the data package.
func init() {
	data.RegisterDriver(&driver{})
}
