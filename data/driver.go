package data

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
)

// Driver interfaces define contracts for record store backends.
// Following the design pattern of database/sql, drivers register themselves
// using init() functions and are looked up at runtime based on configuration.

// Store is a record store the paginator can scan.
type Store interface {
	paging.Scanner
	paging.Pinger

	// Insert adds records. Records without an identity get a fresh one.
	Insert(ctx context.Context, docs ...paging.Document) error

	// Close releases connections held by the store.
	Close(ctx context.Context) error
}

// Driver opens stores of one backend type.
type Driver interface {
	// Name returns the driver identifier (e.g., "mongodb", "postgres", "memory")
	Name() string

	// Open connects to the backend described by cfg. The returned store should
	// be ready for use.
	Open(ctx context.Context, cfg *config.Config) (Store, error)
}

var (
	drivers   = make(map[string]Driver)
	driversMu sync.RWMutex
)

// RegisterDriver makes a store driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
// Example usage in a driver package:
//
//	func init() {
//	    data.RegisterDriver(&driver{})
//	}
//
// If RegisterDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterDriver(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterDriver driver name is empty")
	}

	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDriver called twice for driver %s", name))
	}

	drivers[name] = driver
}

// GetDriver retrieves a registered driver by name.
// It returns an error with helpful instructions if the driver is not found.
func GetDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/ncobase/keyset/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, listDriversLocked(),
		)
	}

	return driver, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return listDriversLocked()
}

// Open opens a store with the driver named by cfg.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("data: nil config")
	}
	driver, err := GetDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	store, err := driver.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("data: open %s: %w", cfg.Driver, err)
	}
	return store, nil
}

// listDriversLocked must be called with the lock held
func listDriversLocked() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
