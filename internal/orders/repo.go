package orders

import (
	"context"
	"fmt"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles order persistence. Orders are append-only: the write
// path only ever inserts, status transitions happen in the backoffice.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order together with its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order == nil {
		return nil, fmt.Errorf("order is required")
	}
	if order.ID == uuid.Nil {
		return nil, fmt.Errorf("order id must be minted before the write")
	}
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("order requires at least one line")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByEntities returns the order history for the provided entity set,
// newest first.
func (r *Repository) ListByEntities(ctx context.Context, entityIDs []uuid.UUID) ([]models.Order, error) {
	if len(entityIDs) == 0 {
		return []models.Order{}, nil
	}
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("entity_id IN ?", entityIDs).
		Order("submitted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every order with its lines, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("submitted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
