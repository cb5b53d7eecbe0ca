package backoffice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/db"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const adminOnlyMessage = "backoffice requires an admin profile"

// Service exposes the admin-side catalog and account management operations.
// Every write republishes the affected live collection so open sessions
// converge without polling.
type Service interface {
	CreateProduct(ctx context.Context, actor *profiles.ProfileDTO, input products.CreateProductDTO) (*products.ProductDTO, error)
	UpdateProduct(ctx context.Context, actor *profiles.ProfileDTO, productID uuid.UUID, input products.UpdateProductDTO) (*products.ProductDTO, error)
	ListProducts(ctx context.Context, actor *profiles.ProfileDTO) ([]products.ProductDTO, error)
	CreateEntity(ctx context.Context, actor *profiles.ProfileDTO, input entities.CreateEntityDTO) (*entities.EntityDTO, error)
	UpdateEntity(ctx context.Context, actor *profiles.ProfileDTO, entityID uuid.UUID, input entities.UpdateEntityDTO) (*entities.EntityDTO, error)
	ListEntities(ctx context.Context, actor *profiles.ProfileDTO) ([]entities.EntityDTO, error)
	SetAuthorizedEntities(ctx context.Context, actor *profiles.ProfileDTO, profileID uuid.UUID, entityIDs []uuid.UUID) (*profiles.ProfileDTO, error)
}

type productStore interface {
	Create(ctx context.Context, dto products.CreateProductDTO) (*models.Product, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, update products.UpdateProductDTO) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
}

type entityStore interface {
	Create(ctx context.Context, dto entities.CreateEntityDTO) (*models.Entity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Entity, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, update entities.UpdateEntityDTO) (*models.Entity, error)
	ListAll(ctx context.Context) ([]models.Entity, error)
}

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateAuthorizedEntities(ctx context.Context, id uuid.UUID, entityIDs []uuid.UUID) (*models.Profile, error)
}

type snapshotRepublisher interface {
	Publish(ctx context.Context, kind enums.CollectionKind) error
}

type service struct {
	products    productStore
	entities    entityStore
	profiles    profileStore
	republisher snapshotRepublisher
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build a backoffice service.
type ServiceParams struct {
	ProductRepo productStore
	EntityRepo  entityStore
	ProfileRepo profileStore
	Republisher snapshotRepublisher
	Logger      *logger.Logger
}

// NewService constructs the backoffice service.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.EntityRepo == nil {
		return nil, fmt.Errorf("entity repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.Republisher == nil {
		return nil, fmt.Errorf("snapshot republisher is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		products:    params.ProductRepo,
		entities:    params.EntityRepo,
		profiles:    params.ProfileRepo,
		republisher: params.Republisher,
		logg:        params.Logger,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, actor *profiles.ProfileDTO, input products.CreateProductDTO) (*products.ProductDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	record, err := s.products.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	s.republish(ctx, enums.CollectionKindProducts)
	return products.FromModel(record), nil
}

func (s *service) UpdateProduct(ctx context.Context, actor *profiles.ProfileDTO, productID uuid.UUID, input products.UpdateProductDTO) (*products.ProductDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.PriceCents != nil && *input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	record, err := s.products.ApplyUpdate(ctx, productID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.republish(ctx, enums.CollectionKindProducts)
	return products.FromModel(record), nil
}

func (s *service) ListProducts(ctx context.Context, actor *profiles.ProfileDTO) ([]products.ProductDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	rows, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return products.FromModels(rows), nil
}

func (s *service) CreateEntity(ctx context.Context, actor *profiles.ProfileDTO, input entities.CreateEntityDTO) (*entities.EntityDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateEntityInput(input); err != nil {
		return nil, err
	}

	record, err := s.entities.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cnpj already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create entity")
	}

	s.republish(ctx, enums.CollectionKindEntities)
	return entities.FromModel(record), nil
}

func (s *service) UpdateEntity(ctx context.Context, actor *profiles.ProfileDTO, entityID uuid.UUID, input entities.UpdateEntityDTO) (*entities.EntityDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if entityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}

	record, err := s.entities.ApplyUpdate(ctx, entityID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update entity")
	}

	s.republish(ctx, enums.CollectionKindEntities)
	return entities.FromModel(record), nil
}

func (s *service) ListEntities(ctx context.Context, actor *profiles.ProfileDTO) ([]entities.EntityDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	rows, err := s.entities.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list entities")
	}
	return entities.FromModels(rows), nil
}

// SetAuthorizedEntities replaces the entity set a representative may operate
// under. Every referenced entity must exist before the set is written.
func (s *service) SetAuthorizedEntities(ctx context.Context, actor *profiles.ProfileDTO, profileID uuid.UUID, entityIDs []uuid.UUID) (*profiles.ProfileDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(entityIDs))
	deduped := make([]uuid.UUID, 0, len(entityIDs))
	for _, id := range entityIDs {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)

		if _, err := s.entities.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("entity %s does not exist", id))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify entity")
		}
	}

	record, err := s.profiles.UpdateAuthorizedEntities(ctx, profileID, deduped)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update authorized entities")
	}
	return profiles.FromModel(record), nil
}

// republish is best-effort: the row is already durable, and open sessions
// converge on the next successful publish.
func (s *service) republish(ctx context.Context, kind enums.CollectionKind) {
	if err := s.republisher.Publish(ctx, kind); err != nil {
		s.logg.Error(ctx, "republishing collection snapshot", err)
	}
}

func requireAdmin(actor *profiles.ProfileDTO) error {
	if actor == nil || !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeAccessDenied, adminOnlyMessage)
	}
	return nil
}

func validateProductInput(input products.CreateProductDTO) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return nil
}

func validateEntityInput(input entities.CreateEntityDTO) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.CNPJ) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cnpj is required")
	}
	return nil
}
