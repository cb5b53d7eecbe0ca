package products

import (
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductDTO is the transport shape of a catalog listing.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	PriceCents  int       `json:"price_cents"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductDTO holds the data required by the repo to persist a new product.
type CreateProductDTO struct {
	SKU         string
	Name        string
	Description *string
	Tags        []string
	PriceCents  int
	Available   *bool
}

// UpdateProductDTO captures the allowed product fields for mutation.
type UpdateProductDTO struct {
	Name        *string
	Description *string
	Tags        *[]string
	PriceCents  *int
	Available   *bool
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Tags:        append([]string(nil), []string(p.Tags)...),
		PriceCents:  p.PriceCents,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromModels maps a slice of product rows into DTOs.
func FromModels(rows []models.Product) []ProductDTO {
	result := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *FromModel(&rows[i]))
	}
	return result
}

func (c CreateProductDTO) ToModel() *models.Product {
	available := true
	if c.Available != nil {
		available = *c.Available
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Product{
		SKU:         c.SKU,
		Name:        c.Name,
		Description: c.Description,
		Tags:        pq.StringArray(append([]string(nil), tags...)),
		PriceCents:  c.PriceCents,
		Available:   available,
	}
}
