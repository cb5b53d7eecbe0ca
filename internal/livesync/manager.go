package livesync

import (
	"context"
	"fmt"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
)

// Feed is the receive surface of one snapshot subscription. It is satisfied
// by the Pub/Sub v2 Subscriber.
type Feed interface {
	Receive(ctx context.Context, f func(ctx context.Context, msg *pubsub.Message)) error
}

// Manager runs the three collection subscriptions as one unit: they start
// together after a profile resolves and are torn down together on sign-out
// or shutdown. Each collection keeps only its latest full snapshot.
type Manager struct {
	products Cell[products.ProductDTO]
	entities Cell[entities.EntityDTO]
	orders   Cell[orders.OrderDTO]

	feeds map[enums.CollectionKind]Feed
	logg  *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// ManagerParams carries the manager dependencies.
type ManagerParams struct {
	ProductsFeed Feed
	EntitiesFeed Feed
	OrdersFeed   Feed
	Logger       *logger.Logger
}

// NewManager validates that all three feeds are present. Partial wiring is
// refused up front so the collections can never drift apart.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.ProductsFeed == nil || params.EntitiesFeed == nil || params.OrdersFeed == nil {
		return nil, fmt.Errorf("all three collection feeds are required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{
		feeds: map[enums.CollectionKind]Feed{
			enums.CollectionKindProducts: params.ProductsFeed,
			enums.CollectionKindEntities: params.EntitiesFeed,
			enums.CollectionKindOrders:   params.OrdersFeed,
		},
		logg: params.Logger,
	}, nil
}

// Start launches the three receive loops. It is idempotent while running.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	stopped := make(chan struct{})
	m.stopped = stopped

	var wg sync.WaitGroup
	for kind, feed := range m.feeds {
		wg.Add(1)
		go func(kind enums.CollectionKind, feed Feed) {
			defer wg.Done()
			if err := feed.Receive(runCtx, func(msgCtx context.Context, msg *pubsub.Message) {
				m.handle(msgCtx, kind, msg.Data)
				msg.Ack()
			}); err != nil && runCtx.Err() == nil {
				m.logg.Error(m.logg.WithField(runCtx, "collection", kind.String()), "snapshot feed terminated", err)
			}
		}(kind, feed)
	}

	go func() {
		wg.Wait()
		close(stopped)
	}()

	return nil
}

// Stop cancels the receive loops, waits for them to drain, and clears every
// snapshot so a later Start begins from a clean slate.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	stopped := m.stopped
	m.cancel = nil
	m.stopped = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if stopped != nil {
		<-stopped
	}

	m.products.Reset()
	m.entities.Reset()
	m.orders.Reset()
}

// Running reports whether the subscriptions are currently active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Products returns the latest products snapshot, or nil before the first one.
func (m *Manager) Products() *Snapshot[products.ProductDTO] {
	return m.products.Load()
}

// Entities returns the latest entities snapshot, or nil before the first one.
func (m *Manager) Entities() *Snapshot[entities.EntityDTO] {
	return m.entities.Load()
}

// Orders returns the latest orders snapshot, or nil before the first one.
func (m *Manager) Orders() *Snapshot[orders.OrderDTO] {
	return m.orders.Load()
}

// handle decodes and applies one feed message. Malformed snapshots are
// dropped whole; the next valid snapshot supersedes them anyway.
func (m *Manager) handle(ctx context.Context, kind enums.CollectionKind, data []byte) {
	logCtx := m.logg.WithField(ctx, "collection", kind.String())

	var applied bool
	var err error
	switch kind {
	case enums.CollectionKindProducts:
		applied, err = applyMessage(&m.products, data, kind)
	case enums.CollectionKindEntities:
		applied, err = applyMessage(&m.entities, data, kind)
	case enums.CollectionKindOrders:
		applied, err = applyMessage(&m.orders, data, kind)
	default:
		m.logg.Warn(logCtx, "message for unmanaged collection")
		return
	}

	if err != nil {
		m.logg.Error(logCtx, "rejecting malformed snapshot", err)
		return
	}
	if !applied {
		m.logg.Warn(logCtx, "dropping stale snapshot")
		return
	}
	m.logg.Info(logCtx, "snapshot applied")
}

func applyMessage[T any](cell *Cell[T], data []byte, kind enums.CollectionKind) (bool, error) {
	snapshot, err := DecodeSnapshot[T](data, kind)
	if err != nil {
		return false, err
	}
	return cell.Apply(snapshot), nil
}
