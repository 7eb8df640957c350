package mongodb

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/logging/logger"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrInvalidStrategy is returned for an unknown load balancing strategy.
	ErrInvalidStrategy = errors.New("invalid load balancing strategy")
	// ErrNoAvailableSlaves is returned by a balancer asked to pick from nothing.
	ErrNoAvailableSlaves = errors.New("no available slaves")
)

// Manager holds the master client and the read replicas.
type Manager struct {
	master   *mongo.Client
	slaves   []*mongo.Client
	strategy Balancer
	mutex    sync.RWMutex
}

// NewManager connects the master and slave nodes of conf.
func NewManager(ctx context.Context, conf *config.MongoDB) (*Manager, error) {
	if conf == nil || conf.Master == nil {
		return nil, errors.New("master mongodb configuration is required")
	}

	strategy, err := NewBalancer(conf.Strategy, conf.Slaves)
	if err != nil {
		return nil, err
	}

	master, err := newClient(ctx, conf.Master)
	if err != nil {
		return nil, err
	}

	var slaves []*mongo.Client
	for i, slaveCfg := range conf.Slaves {
		slave, err := newClient(ctx, slaveCfg)
		if err != nil {
			logger.Warnf(ctx, "failed to connect to slave mongodb %d: %v", i, err)
			continue
		}
		slaves = append(slaves, slave)
	}

	return &Manager{
		master:   master,
		slaves:   slaves,
		strategy: strategy,
	}, nil
}

// Balancer picks the index of the next read replica.
type Balancer interface {
	Next(n int) (int, error)
}

// NewBalancer returns the balancer named by strategy. An empty strategy
// selects round robin.
func NewBalancer(strategy string, nodes []*config.MongoNode) (Balancer, error) {
	switch strategy {
	case "round_robin", "":
		return &RoundRobinBalancer{}, nil
	case "random":
		return &RandomBalancer{}, nil
	case "weight":
		return NewWeightBalancer(nodes), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
}

// RoundRobinBalancer cycles through the replicas.
type RoundRobinBalancer struct {
	current atomic.Uint64
}

func (rb *RoundRobinBalancer) Next(n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoAvailableSlaves
	}
	return int(rb.current.Add(1) % uint64(n)), nil
}

// RandomBalancer picks a replica at random.
type RandomBalancer struct{}

func (rb *RandomBalancer) Next(n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoAvailableSlaves
	}
	return rand.Intn(n), nil
}

// WeightBalancer cycles through the replicas in proportion to their weight.
type WeightBalancer struct {
	weights []int
	current atomic.Uint64
}

func NewWeightBalancer(nodes []*config.MongoNode) *WeightBalancer {
	weights := make([]int, len(nodes))
	for i, node := range nodes {
		weights[i] = node.Weight
		if weights[i] <= 0 {
			weights[i] = 1
		}
	}
	return &WeightBalancer{weights: weights}
}

func (wb *WeightBalancer) Next(n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoAvailableSlaves
	}

	// Replicas that failed to connect are dropped, so only the first n
	// weights still apply.
	weights := wb.weights
	if len(weights) > n {
		weights = weights[:n]
	}
	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0, nil
	}

	next := wb.current.Add(1) % uint64(totalWeight)

	var accumulator int
	for i, w := range weights {
		accumulator += w
		if uint64(accumulator) > next {
			return i, nil
		}
	}
	return 0, nil
}

// Master returns the client used for writes.
func (m *Manager) Master() *mongo.Client {
	if m == nil {
		return nil
	}
	return m.master
}

// Slave returns the client used for reads, falling back to the master.
func (m *Manager) Slave() *mongo.Client {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if len(m.slaves) == 0 {
		return m.master
	}
	i, err := m.strategy.Next(len(m.slaves))
	if err != nil {
		return m.master
	}
	return m.slaves[i]
}

// Collection returns a handle on dbName.collName, read from a replica when
// readOnly is set.
func (m *Manager) Collection(dbName, collName string, readOnly bool) *mongo.Collection {
	if readOnly {
		return m.Slave().Database(dbName).Collection(collName)
	}
	return m.master.Database(dbName).Collection(collName)
}

// Health pings the master and drops replicas that stop answering.
func (m *Manager) Health(ctx context.Context) error {
	if err := m.master.Ping(ctx, nil); err != nil {
		return fmt.Errorf("master mongodb health check failed: %w", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	healthySlaves := m.slaves[:0]
	for _, slave := range m.slaves {
		if err := slave.Ping(ctx, nil); err != nil {
			logger.Warnf(ctx, "slave mongodb health check failed: %v", err)
			continue
		}
		healthySlaves = append(healthySlaves, slave)
	}
	m.slaves = healthySlaves

	if len(m.slaves) == 0 {
		logger.Debugf(ctx, "no healthy slave mongodb available, using master for reads")
	}
	return nil
}

// Close disconnects every client.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error

	if err := m.master.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error closing master connection: %w", err))
	}
	for i, slave := range m.slaves {
		if err := slave.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error closing slave %d connection: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func newClient(ctx context.Context, conf *config.MongoNode) (*mongo.Client, error) {
	if conf == nil || conf.URI == "" {
		return nil, errors.New("mongodb configuration is nil or empty")
	}

	clientOptions := options.Client().ApplyURI(conf.URI)
	if conf.Logging {
		clientOptions.SetMonitor(&event.CommandMonitor{
			Started: func(ctx context.Context, e *event.CommandStartedEvent) {
				logger.Debugf(ctx, "mongodb %s: %s", e.CommandName, e.Command)
			},
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}
	return client, nil
}
