package entities

import (
	"testing"

	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/google/uuid"
)

func testUniverse() []EntityDTO {
	return []EntityDTO{
		{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Distribuidora Alfa", IsActive: true},
		{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Comercial Beta", IsActive: true},
		{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Name: "Mercado Gama", IsActive: true},
	}
}

func representativeProfile(authorized ...uuid.UUID) *profiles.ProfileDTO {
	return &profiles.ProfileDTO{
		ID:                  uuid.New(),
		Role:                enums.ProfileRoleRepresentative,
		AuthorizedEntityIDs: authorized,
	}
}

func TestVisibleEntitiesIntersectsAuthorizedSet(t *testing.T) {
	t.Parallel()

	universe := testUniverse()
	profile := representativeProfile(universe[0].ID, universe[2].ID)

	visible := VisibleEntities(profile, universe)
	if len(visible) != 2 {
		t.Fatalf("visible = %d entities, want 2", len(visible))
	}
	if visible[0].ID != universe[0].ID || visible[1].ID != universe[2].ID {
		t.Errorf("visible set out of order: %v", visible)
	}
}

func TestVisibleEntitiesAdminSeesAll(t *testing.T) {
	t.Parallel()

	universe := testUniverse()
	admin := &profiles.ProfileDTO{ID: uuid.New(), Role: enums.ProfileRoleAdmin}

	visible := VisibleEntities(admin, universe)
	if len(visible) != len(universe) {
		t.Fatalf("visible = %d entities, want %d", len(visible), len(universe))
	}
}

func TestVisibleEntitiesIgnoresDanglingAuthorization(t *testing.T) {
	t.Parallel()

	universe := testUniverse()
	profile := representativeProfile(universe[1].ID, uuid.New())

	visible := VisibleEntities(profile, universe)
	if len(visible) != 1 {
		t.Fatalf("visible = %d entities, want 1", len(visible))
	}
	if visible[0].ID != universe[1].ID {
		t.Errorf("visible[0] = %s, want %s", visible[0].ID, universe[1].ID)
	}
}

func TestSelectEntityOutsideVisibleSet(t *testing.T) {
	t.Parallel()

	universe := testUniverse()
	profile := representativeProfile(universe[0].ID)

	_, err := SelectEntity(profile, universe, universe[1].ID)
	if err == nil {
		t.Fatal("expected access denied")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeAccessDenied {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeAccessDenied)
	}
}

func TestSelectEntityWithinVisibleSet(t *testing.T) {
	t.Parallel()

	universe := testUniverse()
	profile := representativeProfile(universe[0].ID)

	selected, err := SelectEntity(profile, universe, universe[0].ID)
	if err != nil {
		t.Fatalf("SelectEntity: %v", err)
	}
	if selected.ID != universe[0].ID {
		t.Errorf("selected = %s, want %s", selected.ID, universe[0].ID)
	}
}

func TestSelectEntityUnknownIDDeniedForAdmin(t *testing.T) {
	t.Parallel()

	admin := &profiles.ProfileDTO{ID: uuid.New(), Role: enums.ProfileRoleAdmin}
	_, err := SelectEntity(admin, testUniverse(), uuid.New())
	if err == nil {
		t.Fatal("expected access denied for id outside the universe")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeAccessDenied {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeAccessDenied)
	}
}
