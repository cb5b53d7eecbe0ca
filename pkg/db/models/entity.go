package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a legal-entity account (CNPJ) a user can transact on behalf of.
// Lifecycle is owned by the backoffice; the session core only reads it live.
type Entity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	TradeName    *string   `gorm:"column:trade_name"`
	CNPJ         string    `gorm:"column:cnpj;not null;uniqueIndex"`
	AddressLine1 string    `gorm:"column:address_line1;not null"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	PostalCode   string    `gorm:"column:postal_code;not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
