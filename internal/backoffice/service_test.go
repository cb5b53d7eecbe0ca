package backoffice

import (
	"context"
	"errors"
	"testing"

	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	adminActor = &profiles.ProfileDTO{ID: uuid.New(), Role: enums.ProfileRoleAdmin, IsActive: true}
	repActor   = &profiles.ProfileDTO{ID: uuid.New(), Role: enums.ProfileRoleRepresentative, IsActive: true}
)

type stubProductStore struct {
	created   []products.CreateProductDTO
	updated   map[uuid.UUID]products.UpdateProductDTO
	updateErr error
}

func (s *stubProductStore) Create(_ context.Context, dto products.CreateProductDTO) (*models.Product, error) {
	s.created = append(s.created, dto)
	model := dto.ToModel()
	model.ID = uuid.New()
	return model, nil
}

func (s *stubProductStore) ApplyUpdate(_ context.Context, id uuid.UUID, update products.UpdateProductDTO) (*models.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updated == nil {
		s.updated = map[uuid.UUID]products.UpdateProductDTO{}
	}
	s.updated[id] = update
	return &models.Product{ID: id, SKU: "SKU-1", Name: "Arroz 5kg", Tags: pq.StringArray{}, PriceCents: 2490, Available: true}, nil
}

func (s *stubProductStore) ListAll(context.Context) ([]models.Product, error) {
	return []models.Product{{ID: uuid.New(), SKU: "SKU-1", Name: "Arroz 5kg", Tags: pq.StringArray{}, PriceCents: 2490, Available: true}}, nil
}

type stubEntityStore struct {
	known   map[uuid.UUID]*models.Entity
	created []entities.CreateEntityDTO
}

func (s *stubEntityStore) Create(_ context.Context, dto entities.CreateEntityDTO) (*models.Entity, error) {
	s.created = append(s.created, dto)
	model := dto.ToModel()
	model.ID = uuid.New()
	return model, nil
}

func (s *stubEntityStore) FindByID(_ context.Context, id uuid.UUID) (*models.Entity, error) {
	if e, ok := s.known[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEntityStore) ApplyUpdate(_ context.Context, id uuid.UUID, update entities.UpdateEntityDTO) (*models.Entity, error) {
	e, ok := s.known[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.IsActive != nil {
		e.IsActive = *update.IsActive
	}
	return e, nil
}

func (s *stubEntityStore) ListAll(context.Context) ([]models.Entity, error) {
	rows := make([]models.Entity, 0, len(s.known))
	for _, e := range s.known {
		rows = append(rows, *e)
	}
	return rows, nil
}

type stubProfileStore struct {
	known map[uuid.UUID]*models.Profile
	sets  map[uuid.UUID][]uuid.UUID
}

func (s *stubProfileStore) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s.known[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileStore) UpdateAuthorizedEntities(_ context.Context, id uuid.UUID, entityIDs []uuid.UUID) (*models.Profile, error) {
	p, ok := s.known[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if s.sets == nil {
		s.sets = map[uuid.UUID][]uuid.UUID{}
	}
	s.sets[id] = entityIDs
	p.AuthorizedEntityIDs = entityIDs
	return p, nil
}

type recordingRepublisher struct {
	published []enums.CollectionKind
	err       error
}

func (r *recordingRepublisher) Publish(_ context.Context, kind enums.CollectionKind) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, kind)
	return nil
}

type fixture struct {
	products    *stubProductStore
	entities    *stubEntityStore
	profiles    *stubProfileStore
	republisher *recordingRepublisher
	svc         Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		products:    &stubProductStore{},
		entities:    &stubEntityStore{known: map[uuid.UUID]*models.Entity{}},
		profiles:    &stubProfileStore{known: map[uuid.UUID]*models.Profile{}},
		republisher: &recordingRepublisher{},
	}
	svc, err := NewService(ServiceParams{
		ProductRepo: f.products,
		EntityRepo:  f.entities,
		ProfileRepo: f.profiles,
		Republisher: f.republisher,
		Logger:      logger.New(logger.Options{ServiceName: "backoffice-test", Level: zerolog.Disabled}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func TestCreateProductRepublishesCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dto, err := f.svc.CreateProduct(context.Background(), adminActor, products.CreateProductDTO{
		SKU:        "ARZ-5KG",
		Name:       "Arroz Tipo 1 5kg",
		PriceCents: 2490,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Error("expected a persisted product id")
	}
	if len(f.republisher.published) != 1 || f.republisher.published[0] != enums.CollectionKindProducts {
		t.Errorf("published = %v, want [products]", f.republisher.published)
	}
}

func TestNonAdminIsDeniedEverywhere(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	calls := []struct {
		name string
		run  func() error
	}{
		{"create product", func() error {
			_, err := f.svc.CreateProduct(context.Background(), repActor, products.CreateProductDTO{SKU: "X", Name: "X", PriceCents: 1})
			return err
		}},
		{"update product", func() error {
			_, err := f.svc.UpdateProduct(context.Background(), repActor, uuid.New(), products.UpdateProductDTO{})
			return err
		}},
		{"create entity", func() error {
			_, err := f.svc.CreateEntity(context.Background(), repActor, entities.CreateEntityDTO{Name: "X", CNPJ: "00.000.000/0001-00"})
			return err
		}},
		{"set authorized entities", func() error {
			_, err := f.svc.SetAuthorizedEntities(context.Background(), repActor, uuid.New(), nil)
			return err
		}},
		{"nil actor", func() error {
			_, err := f.svc.ListProducts(context.Background(), nil)
			return err
		}},
	}
	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if pkgerrors.As(err).Code() != pkgerrors.CodeAccessDenied {
				t.Errorf("err = %v, want access denied", err)
			}
		})
	}
	if len(f.republisher.published) != 0 {
		t.Errorf("nothing should publish on denied calls, got %v", f.republisher.published)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cases := []struct {
		name  string
		input products.CreateProductDTO
	}{
		{"missing sku", products.CreateProductDTO{Name: "Arroz", PriceCents: 100}},
		{"missing name", products.CreateProductDTO{SKU: "ARZ", PriceCents: 100}},
		{"zero price", products.CreateProductDTO{SKU: "ARZ", Name: "Arroz"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(context.Background(), adminActor, tc.input)
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.products.updateErr = gorm.ErrRecordNotFound

	_, err := f.svc.UpdateProduct(context.Background(), adminActor, uuid.New(), products.UpdateProductDTO{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(f.republisher.published) != 0 {
		t.Errorf("failed update must not republish, got %v", f.republisher.published)
	}
}

func TestUpdateEntityRepublishesEntities(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	entityID := uuid.New()
	f.entities.known[entityID] = &models.Entity{ID: entityID, Name: "Mercado Bom Preço", CNPJ: "11.111.111/0001-11", IsActive: true}

	inactive := false
	dto, err := f.svc.UpdateEntity(context.Background(), adminActor, entityID, entities.UpdateEntityDTO{IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateEntity: %v", err)
	}
	if dto.IsActive {
		t.Error("expected entity to be deactivated")
	}
	if len(f.republisher.published) != 1 || f.republisher.published[0] != enums.CollectionKindEntities {
		t.Errorf("published = %v, want [entities]", f.republisher.published)
	}
}

func TestSetAuthorizedEntitiesValidatesAndDedupes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	profileID := uuid.New()
	entityID := uuid.New()
	f.profiles.known[profileID] = &models.Profile{ID: profileID, Role: enums.ProfileRoleRepresentative, IsActive: true}
	f.entities.known[entityID] = &models.Entity{ID: entityID, Name: "Mercado Bom Preço", IsActive: true}

	dto, err := f.svc.SetAuthorizedEntities(context.Background(), adminActor, profileID, []uuid.UUID{entityID, entityID})
	if err != nil {
		t.Fatalf("SetAuthorizedEntities: %v", err)
	}
	if len(dto.AuthorizedEntityIDs) != 1 || dto.AuthorizedEntityIDs[0] != entityID {
		t.Errorf("authorized = %v, want deduped [%s]", dto.AuthorizedEntityIDs, entityID)
	}
}

func TestSetAuthorizedEntitiesRejectsUnknownEntity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	profileID := uuid.New()
	f.profiles.known[profileID] = &models.Profile{ID: profileID, Role: enums.ProfileRoleRepresentative, IsActive: true}

	_, err := f.svc.SetAuthorizedEntities(context.Background(), adminActor, profileID, []uuid.UUID{uuid.New()})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if len(f.profiles.sets) != 0 {
		t.Error("no write should happen when an entity is unknown")
	}
}

func TestWriteSurvivesRepublishFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.republisher.err = errors.New("pubsub unavailable")

	dto, err := f.svc.CreateProduct(context.Background(), adminActor, products.CreateProductDTO{
		SKU:        "FEI-1KG",
		Name:       "Feijão Carioca 1kg",
		PriceCents: 899,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if dto == nil || len(f.products.created) != 1 {
		t.Error("the write must land even when the republish fails")
	}
}
