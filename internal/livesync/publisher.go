package livesync

import (
	"context"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	pubsubclient "github.com/atacadolink/atacadolink-backend/pkg/pubsub"
	"github.com/google/uuid"
)

// Broadcaster fans a serialized snapshot out to every live session.
type Broadcaster interface {
	Broadcast(ctx context.Context, kind enums.CollectionKind, data []byte) error
}

// PubSubBroadcaster publishes snapshots on the per-collection topics.
type PubSubBroadcaster struct {
	client *pubsubclient.Client
}

// NewPubSubBroadcaster wraps the shared Pub/Sub client.
func NewPubSubBroadcaster(client *pubsubclient.Client) (*PubSubBroadcaster, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	return &PubSubBroadcaster{client: client}, nil
}

// Broadcast publishes the payload and waits for the server ack.
func (b *PubSubBroadcaster) Broadcast(ctx context.Context, kind enums.CollectionKind, data []byte) error {
	publisher := b.client.CollectionPublisher(kind)
	if publisher == nil {
		return fmt.Errorf("no topic configured for collection %q", kind)
	}
	result := publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing %s snapshot: %w", kind, err)
	}
	return nil
}

type productLister interface {
	ListAvailable(ctx context.Context) ([]models.Product, error)
}

type entityLister interface {
	ListActive(ctx context.Context) ([]models.Entity, error)
}

type orderLister interface {
	ListAll(ctx context.Context) ([]models.Order, error)
}

// Publisher rebuilds a collection from the store and emits it as one full
// snapshot. Every mutation that should reach live sessions goes through here.
type Publisher struct {
	products    productLister
	entities    entityLister
	orders      orderLister
	broadcaster Broadcaster
	logg        *logger.Logger
	now         func() time.Time
}

// PublisherParams carries the publisher dependencies.
type PublisherParams struct {
	Products    productLister
	Entities    entityLister
	Orders      orderLister
	Broadcaster Broadcaster
	Logger      *logger.Logger
	Now         func() time.Time
}

// NewPublisher validates dependencies and builds a Publisher.
func NewPublisher(params PublisherParams) (*Publisher, error) {
	if params.Products == nil || params.Entities == nil || params.Orders == nil {
		return nil, fmt.Errorf("all three collection listers are required")
	}
	if params.Broadcaster == nil {
		return nil, fmt.Errorf("broadcaster is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Publisher{
		products:    params.Products,
		entities:    params.Entities,
		orders:      params.Orders,
		broadcaster: params.Broadcaster,
		logg:        params.Logger,
		now:         now,
	}, nil
}

// Publish rebuilds and broadcasts the snapshot for one collection kind.
func (p *Publisher) Publish(ctx context.Context, kind enums.CollectionKind) error {
	switch kind {
	case enums.CollectionKindProducts:
		return p.publishProducts(ctx)
	case enums.CollectionKindEntities:
		return p.publishEntities(ctx)
	case enums.CollectionKindOrders:
		return p.publishOrders(ctx)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown collection kind %q", kind))
	}
}

func (p *Publisher) publishProducts(ctx context.Context) error {
	rows, err := p.products.ListAvailable(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products for snapshot")
	}
	records := make(map[uuid.UUID]products.ProductDTO, len(rows))
	for i := range rows {
		records[rows[i].ID] = *products.FromModel(&rows[i])
	}
	return publishCollection(ctx, p, enums.CollectionKindProducts, records)
}

func (p *Publisher) publishEntities(ctx context.Context) error {
	rows, err := p.entities.ListActive(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading entities for snapshot")
	}
	records := make(map[uuid.UUID]entities.EntityDTO, len(rows))
	for i := range rows {
		records[rows[i].ID] = *entities.FromModel(&rows[i])
	}
	return publishCollection(ctx, p, enums.CollectionKindEntities, records)
}

func (p *Publisher) publishOrders(ctx context.Context) error {
	rows, err := p.orders.ListAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading orders for snapshot")
	}
	records := make(map[uuid.UUID]orders.OrderDTO, len(rows))
	for i := range rows {
		records[rows[i].ID] = *orders.FromModel(&rows[i])
	}
	return publishCollection(ctx, p, enums.CollectionKindOrders, records)
}

func publishCollection[T any](ctx context.Context, p *Publisher, kind enums.CollectionKind, records map[uuid.UUID]T) error {
	payload, err := EncodeSnapshot(kind, p.now(), records)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding snapshot")
	}
	if err := p.broadcaster.Broadcast(ctx, kind, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "broadcasting snapshot")
	}
	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"collection": kind.String(),
		"records":    len(records),
	}), "snapshot published")
	return nil
}
