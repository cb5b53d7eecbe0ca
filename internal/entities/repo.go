package entities

import (
	"context"
	"fmt"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles entity persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to entity operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new entity row.
func (r *Repository) Create(ctx context.Context, dto CreateEntityDTO) (*models.Entity, error) {
	entity := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// FindByID loads an entity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	var entity models.Entity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListActive returns all active entities ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Entity, error) {
	var rows []models.Entity
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every entity row, including inactive ones.
func (r *Repository) ListAll(ctx context.Context) ([]models.Entity, error) {
	var rows []models.Entity
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplyUpdate mutates the allowed fields and saves the entity.
func (r *Repository) ApplyUpdate(ctx context.Context, id uuid.UUID, update UpdateEntityDTO) (*models.Entity, error) {
	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		entity.Name = *update.Name
	}
	if update.TradeName != nil {
		entity.TradeName = update.TradeName
	}
	if update.AddressLine1 != nil {
		entity.AddressLine1 = *update.AddressLine1
	}
	if update.AddressLine2 != nil {
		entity.AddressLine2 = update.AddressLine2
	}
	if update.City != nil {
		entity.City = *update.City
	}
	if update.State != nil {
		entity.State = *update.State
	}
	if update.PostalCode != nil {
		entity.PostalCode = *update.PostalCode
	}
	if update.IsActive != nil {
		entity.IsActive = *update.IsActive
	}

	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// Update saves the provided entity.
func (r *Repository) Update(ctx context.Context, entity *models.Entity) error {
	if entity == nil {
		return fmt.Errorf("entity is required")
	}
	return r.db.WithContext(ctx).Save(entity).Error
}
