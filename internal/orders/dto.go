package orders

import (
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderLineDTO pins a product at its submission-time price.
type OrderLineDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Qty            int       `json:"qty"`
	UnitPriceCents int       `json:"unit_price_cents"`
	TotalCents     int       `json:"total_cents"`
}

// OrderDTO is the transport shape of a submitted order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	EntityID    uuid.UUID         `json:"entity_id"`
	ProfileID   uuid.UUID         `json:"profile_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalCents  int               `json:"total_cents"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Lines       []OrderLineDTO    `json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineDTO{
			ID:             line.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
	}
	return &OrderDTO{
		ID:          o.ID,
		EntityID:    o.EntityID,
		ProfileID:   o.ProfileID,
		Status:      o.Status,
		TotalCents:  o.TotalCents,
		SubmittedAt: o.SubmittedAt,
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// FromModels maps a slice of order rows into DTOs.
func FromModels(rows []models.Order) []OrderDTO {
	result := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *FromModel(&rows[i]))
	}
	return result
}
