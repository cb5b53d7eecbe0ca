package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atacadolink/atacadolink-backend/internal/cart"
	"github.com/atacadolink/atacadolink-backend/internal/chat"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/livesync"
	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
)

// SnapshotSource exposes the latest live collection states.
type SnapshotSource interface {
	Products() *livesync.Snapshot[products.ProductDTO]
	Entities() *livesync.Snapshot[entities.EntityDTO]
	Orders() *livesync.Snapshot[orders.OrderDTO]
}

type snapshotRepublisher interface {
	Publish(ctx context.Context, kind enums.CollectionKind) error
}

// Controller is the per-profile application session. Every operation is
// serialized under one mutex, so callers observe cart, view, and entity
// changes in a consistent order.
type Controller struct {
	mu           sync.Mutex
	profile      *profiles.ProfileDTO
	view         enums.SessionView
	activeEntity *entities.EntityDTO
	chooserOpen  bool
	basket       cart.Cart

	snapshots   SnapshotSource
	submitter   *cart.Submitter
	chatSession *chat.Session
	republisher snapshotRepublisher
	logg        *logger.Logger
}

// ControllerParams carries the controller dependencies.
type ControllerParams struct {
	Profile     *profiles.ProfileDTO
	Snapshots   SnapshotSource
	Submitter   *cart.Submitter
	Chat        *chat.Session
	Republisher snapshotRepublisher
	Logger      *logger.Logger
}

// NewController builds a session starting at the catalog view with an empty
// cart and no active entity.
func NewController(params ControllerParams) (*Controller, error) {
	if params.Profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("cart submitter is required")
	}
	if params.Chat == nil {
		return nil, fmt.Errorf("chat session is required")
	}
	if params.Republisher == nil {
		return nil, fmt.Errorf("snapshot republisher is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Controller{
		profile:     params.Profile,
		view:        enums.SessionViewCatalog,
		chooserOpen: true,
		basket:      cart.New(),
		snapshots:   params.Snapshots,
		submitter:   params.Submitter,
		chatSession: params.Chat,
		republisher: params.Republisher,
		logg:        params.Logger,
	}, nil
}

// Profile returns the resolved profile behind this session.
func (c *Controller) Profile() *profiles.ProfileDTO {
	return c.profile
}

// View returns the currently selected view.
func (c *Controller) View() enums.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SelectView switches the session to the requested view. Any signed-in
// profile may navigate to any view, the backoffice included: a non-admin on
// the backoffice view simply sees no content, since every backoffice data
// operation is gated on the admin role separately.
func (c *Controller) SelectView(view enums.SessionView) error {
	if !view.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown view %q", view))
	}
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
	return nil
}

// VisibleEntities returns the entities this profile may act as, computed
// against the live entities collection. Before the first snapshot it is empty.
func (c *Controller) VisibleEntities() []entities.EntityDTO {
	return entities.VisibleEntities(c.profile, c.entityUniverse())
}

// SelectEntity switches the active entity and closes the entity chooser. The
// cart survives the switch untouched; only submission binds a cart to an
// entity.
func (c *Controller) SelectEntity(entityID uuid.UUID) (*entities.EntityDTO, error) {
	selected, err := entities.SelectEntity(c.profile, c.entityUniverse(), entityID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.activeEntity = selected
	c.chooserOpen = false
	c.mu.Unlock()
	return selected, nil
}

// ActiveEntity returns the currently selected entity, or nil.
func (c *Controller) ActiveEntity() *entities.EntityDTO {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeEntity
}

// ReopenEntityChooser routes the session back to entity selection without
// discarding the current selection or the cart. "Nothing selected yet" and
// "chooser deliberately reopened" are distinct states; this is the latter.
func (c *Controller) ReopenEntityChooser() {
	c.mu.Lock()
	c.chooserOpen = true
	c.mu.Unlock()
}

// EntityChooserOpen reports whether the session is on entity selection,
// either because nothing was selected yet or because the chooser was
// deliberately reopened.
func (c *Controller) EntityChooserOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chooserOpen
}

// Catalog returns the live product catalog sorted by name.
func (c *Controller) Catalog() []products.ProductDTO {
	snapshot := c.snapshots.Products()
	if snapshot == nil {
		return []products.ProductDTO{}
	}
	list := make([]products.ProductDTO, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		list = append(list, record)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// OrderHistory returns the live orders belonging to the profile's visible
// entities, newest first. Orders of other entities never leak through.
func (c *Controller) OrderHistory() []orders.OrderDTO {
	snapshot := c.snapshots.Orders()
	if snapshot == nil {
		return []orders.OrderDTO{}
	}

	visible := map[uuid.UUID]struct{}{}
	for _, entity := range c.VisibleEntities() {
		visible[entity.ID] = struct{}{}
	}

	list := make([]orders.OrderDTO, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		if _, ok := visible[record.EntityID]; ok {
			list = append(list, record)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list
}

// AddToCart puts one unit of the product in the cart. The product must be in
// the live catalog; adding it twice is a no-op.
func (c *Controller) AddToCart(productID uuid.UUID) ([]cart.Line, error) {
	if _, ok := c.lookupProduct(productID); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in the catalog")
	}
	c.mu.Lock()
	c.basket = c.basket.Add(productID)
	lines := c.basket.Lines()
	c.mu.Unlock()
	return lines, nil
}

// AdjustCartQuantity shifts the quantity of an existing cart line by delta.
func (c *Controller) AdjustCartQuantity(productID uuid.UUID, delta int) []cart.Line {
	c.mu.Lock()
	c.basket = c.basket.AdjustQuantity(productID, delta)
	lines := c.basket.Lines()
	c.mu.Unlock()
	return lines
}

// RemoveFromCart drops the product's line, if present.
func (c *Controller) RemoveFromCart(productID uuid.UUID) []cart.Line {
	c.mu.Lock()
	c.basket = c.basket.Remove(productID)
	lines := c.basket.Lines()
	c.mu.Unlock()
	return lines
}

// ClearCart empties the cart.
func (c *Controller) ClearCart() {
	c.mu.Lock()
	c.basket = c.basket.Clear()
	c.mu.Unlock()
}

// CartLines returns the current cart contents.
func (c *Controller) CartLines() []cart.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basket.Lines()
}

// SubmitCart turns the cart into an order priced against the live catalog.
// On success the cart is cleared and the orders snapshot is republished so
// every session sees the new order; on failure the cart is left intact.
func (c *Controller) SubmitCart(ctx context.Context) (*orders.OrderDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entityID uuid.UUID
	if c.activeEntity != nil {
		entityID = c.activeEntity.ID
	}

	order, remaining, err := c.submitter.Submit(ctx, c.profile.ID, entityID, c.basket, c.lookupProduct)
	if err != nil {
		c.basket = remaining
		return nil, err
	}
	c.basket = remaining

	if err := c.republisher.Publish(ctx, enums.CollectionKindOrders); err != nil {
		// The order is durably written; sessions catch up on the next publish.
		c.logg.Error(c.logg.WithField(ctx, "order_id", order.ID.String()), "orders snapshot republish failed", err)
	}
	return order, nil
}

// Chat returns the session's support conversation.
func (c *Controller) Chat() *chat.Session {
	return c.chatSession
}

// Teardown resets the session-local state on sign-out: cart, active entity,
// and view. The chat transcript dies with the controller itself.
func (c *Controller) Teardown() {
	c.mu.Lock()
	c.basket = cart.New()
	c.activeEntity = nil
	c.chooserOpen = true
	c.view = enums.SessionViewCatalog
	c.mu.Unlock()
}

func (c *Controller) entityUniverse() []entities.EntityDTO {
	snapshot := c.snapshots.Entities()
	if snapshot == nil {
		return []entities.EntityDTO{}
	}
	universe := make([]entities.EntityDTO, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		universe = append(universe, record)
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i].Name < universe[j].Name })
	return universe
}

func (c *Controller) lookupProduct(productID uuid.UUID) (*products.ProductDTO, bool) {
	snapshot := c.snapshots.Products()
	if snapshot == nil {
		return nil, false
	}
	record, ok := snapshot.Records[productID]
	if !ok {
		return nil, false
	}
	return &record, true
}
