package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/google/uuid"
)

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// PriceLookup resolves a product from the live catalog at submission time.
type PriceLookup func(productID uuid.UUID) (*products.ProductDTO, bool)

// Submitter turns a cart into a persisted order with submission-time prices.
type Submitter struct {
	orders orderWriter
	now    func() time.Time
}

// SubmitterParams carries the submitter dependencies.
type SubmitterParams struct {
	Orders orderWriter
	Now    func() time.Time
}

// NewSubmitter validates dependencies and builds a Submitter.
func NewSubmitter(params SubmitterParams) (*Submitter, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Submitter{orders: params.Orders, now: now}, nil
}

// Submit mints a fresh order id, pins every line to the catalog price at this
// moment, and writes the order. The returned cart is empty on success and
// unchanged on write failure so the user can retry without losing anything.
func (s *Submitter) Submit(ctx context.Context, profileID, entityID uuid.UUID, c Cart, lookup PriceLookup) (*orders.OrderDTO, Cart, error) {
	if profileID == uuid.Nil {
		return nil, c, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if entityID == uuid.Nil {
		return nil, c, pkgerrors.New(pkgerrors.CodeValidation, "an entity must be selected before submitting")
	}
	if c.IsEmpty() {
		return nil, c, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if lookup == nil {
		return nil, c, pkgerrors.New(pkgerrors.CodeInternal, "price lookup is required")
	}

	orderID := uuid.New()
	submittedAt := s.now().UTC()

	lines := make([]models.OrderLineItem, 0, c.Len())
	total := 0
	for _, line := range c.Lines() {
		product, ok := lookup(line.ProductID)
		if !ok {
			return nil, c, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s is no longer in the catalog", line.ProductID))
		}
		lineTotal := product.PriceCents * line.Qty
		lines = append(lines, models.OrderLineItem{
			OrderID:        orderID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			Qty:            line.Qty,
			UnitPriceCents: product.PriceCents,
			TotalCents:     lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		ID:          orderID,
		EntityID:    entityID,
		ProfileID:   profileID,
		Status:      enums.OrderStatusSubmitted,
		TotalCents:  total,
		SubmittedAt: submittedAt,
		Lines:       lines,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, c, pkgerrors.Wrap(pkgerrors.CodeOrderWrite, err, "writing order")
	}

	return orders.FromModel(created), c.Clear(), nil
}
