package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a shared catalog listing. Lifecycle is owned by the backoffice;
// the session core reads it live and snapshots prices into orders.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string         `gorm:"column:sku;not null;uniqueIndex"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	Available   bool           `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
