package entities

import (
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/google/uuid"
)

// VisibleEntities filters the live entity universe down to what the profile
// may act as. Admins see the whole universe; everyone else sees the
// intersection with their authorized set. Universe order is preserved.
func VisibleEntities(profile *profiles.ProfileDTO, universe []EntityDTO) []EntityDTO {
	if profile == nil {
		return []EntityDTO{}
	}
	if profile.IsAdmin() {
		return append([]EntityDTO(nil), universe...)
	}

	authorized := make(map[uuid.UUID]struct{}, len(profile.AuthorizedEntityIDs))
	for _, id := range profile.AuthorizedEntityIDs {
		authorized[id] = struct{}{}
	}

	visible := make([]EntityDTO, 0, len(authorized))
	for _, entity := range universe {
		if _, ok := authorized[entity.ID]; ok {
			visible = append(visible, entity)
		}
	}
	return visible
}

// SelectEntity resolves the requested entity against the profile's visible
// set. Entities outside the set are rejected, whether they exist or not, so
// callers cannot probe the universe.
func SelectEntity(profile *profiles.ProfileDTO, universe []EntityDTO, entityID uuid.UUID) (*EntityDTO, error) {
	if entityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	for _, entity := range VisibleEntities(profile, universe) {
		if entity.ID == entityID {
			selected := entity
			return &selected, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeAccessDenied, "entity not available to this profile")
}
