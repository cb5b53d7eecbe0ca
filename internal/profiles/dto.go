package profiles

import (
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	dbtypes "github.com/atacadolink/atacadolink-backend/pkg/db/types"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProfileDTO is the transport shape that omits the credential hash.
type ProfileDTO struct {
	ID                  uuid.UUID         `json:"id"`
	Email               string            `json:"email"`
	DisplayName         string            `json:"display_name"`
	Role                enums.ProfileRole `json:"role"`
	Category            *string           `json:"category,omitempty"`
	AuthorizedEntityIDs []uuid.UUID       `json:"authorized_entity_ids"`
	IsActive            bool              `json:"is_active"`
	LastLoginAt         *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// CreateProfileDTO holds the data required by the repo to persist a new profile.
type CreateProfileDTO struct {
	Email               string
	PasswordHash        string
	DisplayName         string
	Role                enums.ProfileRole
	Category            *string
	AuthorizedEntityIDs []uuid.UUID
	IsActive            *bool
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ID:                  p.ID,
		Email:               p.Email,
		DisplayName:         p.DisplayName,
		Role:                p.Role,
		Category:            p.Category,
		AuthorizedEntityIDs: append([]uuid.UUID(nil), []uuid.UUID(p.AuthorizedEntityIDs)...),
		IsActive:            p.IsActive,
		LastLoginAt:         p.LastLoginAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	entityIDs := c.AuthorizedEntityIDs
	if entityIDs == nil {
		entityIDs = []uuid.UUID{}
	} else {
		entityIDs = append([]uuid.UUID(nil), entityIDs...)
	}

	role := c.Role
	if role == "" {
		role = enums.ProfileRoleRepresentative
	}

	return &models.Profile{
		Email:               c.Email,
		PasswordHash:        c.PasswordHash,
		DisplayName:         c.DisplayName,
		Role:                role,
		Category:            c.Category,
		AuthorizedEntityIDs: dbtypes.UUIDArray(entityIDs),
		IsActive:            isActive,
	}
}

// IsAdmin reports whether the profile carries the admin role.
func (p *ProfileDTO) IsAdmin() bool {
	return p != nil && p.Role == enums.ProfileRoleAdmin
}
