package models

import (
	"time"

	dbtypes "github.com/atacadolink/atacadolink-backend/pkg/db/types"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/google/uuid"
)

// Profile is the application-level identity record derived from an
// authentication event. AuthorizedEntityIDs is the set of legal entities the
// profile may act as; admins bypass the set entirely.
type Profile struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string            `gorm:"column:password_hash;not null"`
	DisplayName         string            `gorm:"column:display_name;not null"`
	Role                enums.ProfileRole `gorm:"column:role;not null;default:'representative'"`
	Category            *string           `gorm:"column:category"`
	AuthorizedEntityIDs dbtypes.UUIDArray `gorm:"type:uuid[];column:authorized_entity_ids;not null;default:ARRAY[]::uuid[]"`
	IsActive            bool              `gorm:"column:is_active;not null;default:true"`
	LastLoginAt         *time.Time        `gorm:"column:last_login_at"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
