package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthEvent carries the verified identity attributes of a sign-in.
type AuthEvent struct {
	ProfileID   uuid.UUID
	Email       string
	DisplayName string
}

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
}

// Resolver turns an authentication event into an application profile.
//
// A missing record is replaced by a synthesized default profile persisted on
// the spot. A failing store resolves to no profile at all: the sign-in is
// rejected rather than degraded to a profile with guessed attributes.
type Resolver struct {
	store  profileStore
	logger *logger.Logger
}

// ResolverParams carries the resolver dependencies.
type ResolverParams struct {
	Store  profileStore
	Logger *logger.Logger
}

// NewResolver validates dependencies and builds a Resolver.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Resolver{store: params.Store, logger: params.Logger}, nil
}

// Resolve loads the profile behind the auth event, creating a default profile
// on first sign-in. A store failure resolves to no profile: the caller gets
// the error and must send the user back through the login flow.
func (r *Resolver) Resolve(ctx context.Context, event AuthEvent) (*profiles.ProfileDTO, error) {
	if event.ProfileID == uuid.Nil && strings.TrimSpace(event.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auth event requires a profile id or email")
	}

	profile, err := r.lookup(ctx, event)
	if err == nil {
		return profiles.FromModel(profile), nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.provisionDefault(ctx, event)
	}

	storeErr := pkgerrors.Wrap(pkgerrors.CodeProfileStore, err, "loading profile")
	r.logger.Error(ctx, "profile store unavailable, rejecting sign-in", storeErr)
	return nil, storeErr
}

func (r *Resolver) lookup(ctx context.Context, event AuthEvent) (*models.Profile, error) {
	if event.ProfileID != uuid.Nil {
		return r.store.FindByID(ctx, event.ProfileID)
	}
	return r.store.FindByEmail(ctx, normalizeEmail(event.Email))
}

// provisionDefault persists a default profile for a first sign-in. The write
// must land before the profile is considered usable; a failing write rejects
// the sign-in.
func (r *Resolver) provisionDefault(ctx context.Context, event AuthEvent) (*profiles.ProfileDTO, error) {
	created, err := r.store.Create(ctx, profiles.CreateProfileDTO{
		Email:               normalizeEmail(event.Email),
		DisplayName:         defaultDisplayName(event),
		AuthorizedEntityIDs: []uuid.UUID{},
	})
	if err != nil {
		storeErr := pkgerrors.Wrap(pkgerrors.CodeProfileStore, err, "persisting default profile")
		r.logger.Error(ctx, "default profile not persisted, rejecting sign-in", storeErr)
		return nil, storeErr
	}
	return profiles.FromModel(created), nil
}

func defaultDisplayName(event AuthEvent) string {
	if name := strings.TrimSpace(event.DisplayName); name != "" {
		return name
	}
	email := normalizeEmail(event.Email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	if email != "" {
		return email
	}
	return "representante"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
