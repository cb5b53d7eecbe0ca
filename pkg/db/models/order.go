package models

import (
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/google/uuid"
)

// Order is created exactly once per cart submission. The id is minted by the
// session core before the write, never by the database, and the record is
// append-only from the core's perspective.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	EntityID    uuid.UUID         `gorm:"column:entity_id;type:uuid;not null;index"`
	ProfileID   uuid.UUID         `gorm:"column:profile_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;not null"`
	TotalCents  int               `gorm:"column:total_cents;not null"`
	SubmittedAt time.Time         `gorm:"column:submitted_at;not null"`
	Lines       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem pins the quantity and the unit price of a product at the
// moment of submission, decoupling the order from later catalog changes.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	TotalCents     int       `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
