package entities

import (
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/google/uuid"
)

// EntityDTO is the transport shape of a legal entity account.
type EntityDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TradeName    *string   `json:"trade_name,omitempty"`
	CNPJ         string    `json:"cnpj"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateEntityDTO holds the data required by the repo to persist a new entity.
type CreateEntityDTO struct {
	Name         string
	TradeName    *string
	CNPJ         string
	AddressLine1 string
	AddressLine2 *string
	City         string
	State        string
	PostalCode   string
	IsActive     *bool
}

// UpdateEntityDTO captures the allowed entity fields for mutation.
type UpdateEntityDTO struct {
	Name         *string
	TradeName    *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	IsActive     *bool
}

func FromModel(e *models.Entity) *EntityDTO {
	if e == nil {
		return nil
	}
	return &EntityDTO{
		ID:           e.ID,
		Name:         e.Name,
		TradeName:    e.TradeName,
		CNPJ:         e.CNPJ,
		AddressLine1: e.AddressLine1,
		AddressLine2: e.AddressLine2,
		City:         e.City,
		State:        e.State,
		PostalCode:   e.PostalCode,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// FromModels maps a slice of entity rows into DTOs.
func FromModels(rows []models.Entity) []EntityDTO {
	result := make([]EntityDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *FromModel(&rows[i]))
	}
	return result
}

func (c CreateEntityDTO) ToModel() *models.Entity {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.Entity{
		Name:         c.Name,
		TradeName:    c.TradeName,
		CNPJ:         c.CNPJ,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		State:        c.State,
		PostalCode:   c.PostalCode,
		IsActive:     isActive,
	}
}
