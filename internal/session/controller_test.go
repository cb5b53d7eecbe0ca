package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atacadolink/atacadolink-backend/internal/cart"
	"github.com/atacadolink/atacadolink-backend/internal/chat"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/livesync"
	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/inference"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeSnapshots struct {
	mu           sync.Mutex
	productsSnap *livesync.Snapshot[products.ProductDTO]
	entitiesSnap *livesync.Snapshot[entities.EntityDTO]
	ordersSnap   *livesync.Snapshot[orders.OrderDTO]
}

func (f *fakeSnapshots) Products() *livesync.Snapshot[products.ProductDTO] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productsSnap
}

func (f *fakeSnapshots) Entities() *livesync.Snapshot[entities.EntityDTO] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entitiesSnap
}

func (f *fakeSnapshots) Orders() *livesync.Snapshot[orders.OrderDTO] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ordersSnap
}

type fakeRepublisher struct {
	mu    sync.Mutex
	kinds []enums.CollectionKind
	err   error
}

func (f *fakeRepublisher) Publish(ctx context.Context, kind enums.CollectionKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	return f.err
}

type fakeOrderWriter struct {
	created []*models.Order
	err     error
}

func (f *fakeOrderWriter) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, order)
	return order, nil
}

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, system string, turns []inference.Message) (string, error) {
	return "ok", nil
}

func disabledLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "session-test", Level: zerolog.Disabled})
}

type fixture struct {
	controller  *Controller
	snapshots   *fakeSnapshots
	republisher *fakeRepublisher
	writer      *fakeOrderWriter
	entityA     entities.EntityDTO
	entityB     entities.EntityDTO
	arroz       products.ProductDTO
}

func snapshotAt[T any](t time.Time, records map[uuid.UUID]T) *livesync.Snapshot[T] {
	return &livesync.Snapshot[T]{EmittedAt: t, Records: records}
}

func newFixture(t *testing.T, profile *profiles.ProfileDTO) *fixture {
	t.Helper()

	entityA := entities.EntityDTO{ID: uuid.New(), Name: "Distribuidora Alfa", IsActive: true}
	entityB := entities.EntityDTO{ID: uuid.New(), Name: "Mercado Gama", IsActive: true}
	arroz := products.ProductDTO{ID: uuid.New(), Name: "Arroz 5kg", PriceCents: 2490, Available: true}

	now := time.Now()
	snapshots := &fakeSnapshots{
		productsSnap: snapshotAt(now, map[uuid.UUID]products.ProductDTO{arroz.ID: arroz}),
		entitiesSnap: snapshotAt(now, map[uuid.UUID]entities.EntityDTO{entityA.ID: entityA, entityB.ID: entityB}),
		ordersSnap:   snapshotAt(now, map[uuid.UUID]orders.OrderDTO{}),
	}

	writer := &fakeOrderWriter{}
	submitter, err := cart.NewSubmitter(cart.SubmitterParams{Orders: writer})
	if err != nil {
		t.Fatalf("NewSubmitter: %v", err)
	}
	chatSession, err := chat.NewSession(chat.SessionParams{Client: echoCompleter{}, Logger: disabledLogger()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	republisher := &fakeRepublisher{}
	controller, err := NewController(ControllerParams{
		Profile:     profile,
		Snapshots:   snapshots,
		Submitter:   submitter,
		Chat:        chatSession,
		Republisher: republisher,
		Logger:      disabledLogger(),
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	return &fixture{
		controller:  controller,
		snapshots:   snapshots,
		republisher: republisher,
		writer:      writer,
		entityA:     entityA,
		entityB:     entityB,
		arroz:       arroz,
	}
}

func repProfile(authorized ...uuid.UUID) *profiles.ProfileDTO {
	return &profiles.ProfileDTO{
		ID:                  uuid.New(),
		Email:               "rep@atacado.example",
		Role:                enums.ProfileRoleRepresentative,
		AuthorizedEntityIDs: authorized,
	}
}

func TestSelectViewBackofficeIsNavigationNotAuthorization(t *testing.T) {
	t.Parallel()

	// Navigating to the backoffice never errors; a non-admin simply has no
	// backoffice content, since every data operation checks the role itself.
	fx := newFixture(t, repProfile())
	if err := fx.controller.SelectView(enums.SessionViewBackoffice); err != nil {
		t.Fatalf("SelectView: %v", err)
	}
	if fx.controller.View() != enums.SessionViewBackoffice {
		t.Errorf("view = %s, want backoffice", fx.controller.View())
	}

	admin := &profiles.ProfileDTO{ID: uuid.New(), Role: enums.ProfileRoleAdmin}
	adminFx := newFixture(t, admin)
	if err := adminFx.controller.SelectView(enums.SessionViewBackoffice); err != nil {
		t.Fatalf("admin SelectView: %v", err)
	}
	if adminFx.controller.View() != enums.SessionViewBackoffice {
		t.Errorf("view = %s, want backoffice", adminFx.controller.View())
	}
}

func TestSelectViewUnknownView(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, repProfile())
	if err := fx.controller.SelectView(enums.SessionView("dashboard")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEntitySwitchPreservesCart(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID, fx.entityB.ID}

	if _, err := fx.controller.SelectEntity(fx.entityA.ID); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if _, err := fx.controller.AddToCart(fx.arroz.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	fx.controller.AdjustCartQuantity(fx.arroz.ID, 5)

	if _, err := fx.controller.SelectEntity(fx.entityB.ID); err != nil {
		t.Fatalf("switch entity: %v", err)
	}

	lines := fx.controller.CartLines()
	if len(lines) != 1 || lines[0].Qty != 6 {
		t.Errorf("cart after switch = %v, want preserved line qty 6", lines)
	}
	if fx.controller.ActiveEntity().ID != fx.entityB.ID {
		t.Errorf("active entity = %s, want %s", fx.controller.ActiveEntity().ID, fx.entityB.ID)
	}
}

func TestEntityChooserReopenPreservesSelectionAndCart(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}

	if !fx.controller.EntityChooserOpen() {
		t.Error("chooser should start open with nothing selected")
	}

	if _, err := fx.controller.SelectEntity(fx.entityA.ID); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if fx.controller.EntityChooserOpen() {
		t.Error("chooser should close after a selection")
	}
	if _, err := fx.controller.AddToCart(fx.arroz.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	// An explicit switch-entity action reopens the chooser but touches
	// neither the current selection nor the cart.
	fx.controller.ReopenEntityChooser()
	if !fx.controller.EntityChooserOpen() {
		t.Error("chooser should be open after reopening")
	}
	if fx.controller.ActiveEntity() == nil || fx.controller.ActiveEntity().ID != fx.entityA.ID {
		t.Error("reopening the chooser must keep the current selection")
	}
	if lines := fx.controller.CartLines(); len(lines) != 1 {
		t.Errorf("cart after reopen = %v, want the line kept", lines)
	}
}

func TestSelectEntityDeniedOutsideAuthorizedSet(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}

	_, err := fx.controller.SelectEntity(fx.entityB.ID)
	if err == nil {
		t.Fatal("expected access denied")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeAccessDenied {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeAccessDenied)
	}
	if fx.controller.ActiveEntity() != nil {
		t.Error("active entity must stay unset after denial")
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, repProfile())
	_, err := fx.controller.AddToCart(uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeNotFound)
	}
}

func TestSubmitCartRepublishesOrdersSnapshot(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}

	if _, err := fx.controller.SelectEntity(fx.entityA.ID); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if _, err := fx.controller.AddToCart(fx.arroz.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	order, err := fx.controller.SubmitCart(context.Background())
	if err != nil {
		t.Fatalf("SubmitCart: %v", err)
	}
	if order.EntityID != fx.entityA.ID {
		t.Errorf("order entity = %s, want %s", order.EntityID, fx.entityA.ID)
	}
	if len(fx.controller.CartLines()) != 0 {
		t.Error("cart must be empty after submit")
	}
	if len(fx.republisher.kinds) != 1 || fx.republisher.kinds[0] != enums.CollectionKindOrders {
		t.Errorf("republished kinds = %v, want [orders]", fx.republisher.kinds)
	}
}

func TestSubmitCartWriteFailurePreservesCart(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}
	fx.writer.err = errors.New("insert failed")

	if _, err := fx.controller.SelectEntity(fx.entityA.ID); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if _, err := fx.controller.AddToCart(fx.arroz.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	_, err := fx.controller.SubmitCart(context.Background())
	if err == nil {
		t.Fatal("expected order write error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeOrderWrite {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeOrderWrite)
	}
	if len(fx.controller.CartLines()) != 1 {
		t.Error("cart must survive a failed submit")
	}
	if len(fx.republisher.kinds) != 0 {
		t.Error("no snapshot republish on failure")
	}
}

func TestOrderHistoryFiltersToVisibleEntities(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}

	mine := orders.OrderDTO{ID: uuid.New(), EntityID: fx.entityA.ID, SubmittedAt: time.Now()}
	other := orders.OrderDTO{ID: uuid.New(), EntityID: fx.entityB.ID, SubmittedAt: time.Now().Add(-time.Hour)}
	fx.snapshots.mu.Lock()
	fx.snapshots.ordersSnap = snapshotAt(time.Now(), map[uuid.UUID]orders.OrderDTO{
		mine.ID:  mine,
		other.ID: other,
	})
	fx.snapshots.mu.Unlock()

	history := fx.controller.OrderHistory()
	if len(history) != 1 {
		t.Fatalf("history = %d orders, want 1", len(history))
	}
	if history[0].ID != mine.ID {
		t.Errorf("history[0] = %s, want %s", history[0].ID, mine.ID)
	}
}

func TestCatalogEmptyBeforeFirstSnapshot(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, repProfile())
	fx.snapshots.mu.Lock()
	fx.snapshots.productsSnap = nil
	fx.snapshots.mu.Unlock()

	if got := fx.controller.Catalog(); len(got) != 0 {
		t.Errorf("catalog = %v, want empty", got)
	}
}

func TestTeardownResetsSessionState(t *testing.T) {
	t.Parallel()

	profile := repProfile()
	fx := newFixture(t, profile)
	profile.AuthorizedEntityIDs = []uuid.UUID{fx.entityA.ID}

	if _, err := fx.controller.SelectEntity(fx.entityA.ID); err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if _, err := fx.controller.AddToCart(fx.arroz.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := fx.controller.SelectView(enums.SessionViewSupport); err != nil {
		t.Fatalf("SelectView: %v", err)
	}

	fx.controller.Teardown()

	if len(fx.controller.CartLines()) != 0 {
		t.Error("cart must be cleared")
	}
	if fx.controller.ActiveEntity() != nil {
		t.Error("active entity must be cleared")
	}
	if fx.controller.View() != enums.SessionViewCatalog {
		t.Errorf("view = %s, want catalog", fx.controller.View())
	}
	if !fx.controller.EntityChooserOpen() {
		t.Error("chooser must be open again after teardown")
	}
}
