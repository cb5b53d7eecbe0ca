package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/middleware"
	"github.com/atacadolink/atacadolink-backend/internal/identity"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	appsession "github.com/atacadolink/atacadolink-backend/internal/session"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/google/uuid"
)

type sessionRegistry interface {
	Get(profileID uuid.UUID) (*appsession.Controller, bool)
	Resolve(ctx context.Context, profile *profiles.ProfileDTO) (*appsession.Controller, error)
}

type profileResolver interface {
	Resolve(ctx context.Context, event identity.AuthEvent) (*profiles.ProfileDTO, error)
}

// SessionHub bridges authenticated requests to their live app session. When a
// token outlives the in-memory session (process restart), the session is
// re-opened from the stored profile instead of rejecting the request.
type SessionHub struct {
	registry sessionRegistry
	resolver profileResolver
}

// NewSessionHub builds the request-to-session bridge.
func NewSessionHub(registry sessionRegistry, resolver profileResolver) (*SessionHub, error) {
	if registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("profile resolver is required")
	}
	return &SessionHub{registry: registry, resolver: resolver}, nil
}

// Controller returns the live session behind the request's credentials.
func (h *SessionHub) Controller(r *http.Request) (*appsession.Controller, error) {
	profileID, err := profileIDFromRequest(r)
	if err != nil {
		return nil, err
	}

	if ctrl, ok := h.registry.Get(profileID); ok {
		return ctrl, nil
	}

	profile, err := h.resolver.Resolve(r.Context(), identity.AuthEvent{ProfileID: profileID})
	if err != nil {
		return nil, err
	}
	return h.registry.Resolve(r.Context(), profile)
}

func profileIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ProfileIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid profile id")
	}
	return profileID, nil
}
