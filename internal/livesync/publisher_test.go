package livesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type stubListers struct {
	products    []models.Product
	entities    []models.Entity
	orders      []models.Order
	productsErr error
}

func (s *stubListers) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return s.products, s.productsErr
}

func (s *stubListers) ListActive(ctx context.Context) ([]models.Entity, error) {
	return s.entities, nil
}

func (s *stubListers) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders, nil
}

type captureBroadcaster struct {
	kind enums.CollectionKind
	data []byte
	err  error
}

func (c *captureBroadcaster) Broadcast(ctx context.Context, kind enums.CollectionKind, data []byte) error {
	c.kind = kind
	c.data = data
	return c.err
}

func newTestPublisher(t *testing.T, listers *stubListers, broadcaster *captureBroadcaster) *Publisher {
	t.Helper()
	publisher, err := NewPublisher(PublisherParams{
		Products:    listers,
		Entities:    listers,
		Orders:      listers,
		Broadcaster: broadcaster,
		Logger:      logger.New(logger.Options{ServiceName: "livesync-test", Level: zerolog.Disabled}),
		Now:         func() time.Time { return time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	return publisher
}

func TestPublishProductsBroadcastsDecodableSnapshot(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	listers := &stubListers{products: []models.Product{
		{ID: productID, SKU: "FEJ-1KG", Name: "Feijão 1kg", PriceCents: 899, Available: true},
	}}
	broadcaster := &captureBroadcaster{}
	publisher := newTestPublisher(t, listers, broadcaster)

	if err := publisher.Publish(context.Background(), enums.CollectionKindProducts); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if broadcaster.kind != enums.CollectionKindProducts {
		t.Errorf("kind = %s", broadcaster.kind)
	}

	snapshot, err := DecodeSnapshot[products.ProductDTO](broadcaster.data, enums.CollectionKindProducts)
	if err != nil {
		t.Fatalf("snapshot not decodable: %v", err)
	}
	if snapshot.Records[productID].SKU != "FEJ-1KG" {
		t.Errorf("record = %+v", snapshot.Records[productID])
	}
}

func TestPublishStoreFailure(t *testing.T) {
	t.Parallel()

	listers := &stubListers{productsErr: errors.New("db down")}
	publisher := newTestPublisher(t, listers, &captureBroadcaster{})

	err := publisher.Publish(context.Background(), enums.CollectionKindProducts)
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeDependency)
	}
}

func TestPublishBroadcastFailure(t *testing.T) {
	t.Parallel()

	publisher := newTestPublisher(t, &stubListers{}, &captureBroadcaster{err: errors.New("topic gone")})

	err := publisher.Publish(context.Background(), enums.CollectionKindOrders)
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeDependency)
	}
}

func TestPublishUnknownKind(t *testing.T) {
	t.Parallel()

	publisher := newTestPublisher(t, &stubListers{}, &captureBroadcaster{})
	if err := publisher.Publish(context.Background(), enums.CollectionKind("promotions")); err == nil {
		t.Fatal("expected validation error")
	}
}
