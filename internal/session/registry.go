package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/atacadolink/atacadolink-backend/internal/cart"
	"github.com/atacadolink/atacadolink-backend/internal/chat"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
)

type feedLifecycle interface {
	Start(ctx context.Context) error
	Stop()
}

type chatFactory func() (*chat.Session, error)

// Registry owns the live session controllers, one per signed-in profile.
// The snapshot subscriptions run while at least one session is alive: the
// first sign-in starts them, the last sign-out tears them down.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller

	feeds       feedLifecycle
	snapshots   SnapshotSource
	submitter   *cart.Submitter
	republisher snapshotRepublisher
	newChat     chatFactory
	logg        *logger.Logger
}

// RegistryParams carries the registry dependencies.
type RegistryParams struct {
	Feeds       feedLifecycle
	Snapshots   SnapshotSource
	Submitter   *cart.Submitter
	Republisher snapshotRepublisher
	NewChat     chatFactory
	Logger      *logger.Logger
}

// NewRegistry validates dependencies and builds an empty registry.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Feeds == nil {
		return nil, fmt.Errorf("feed lifecycle is required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("cart submitter is required")
	}
	if params.Republisher == nil {
		return nil, fmt.Errorf("snapshot republisher is required")
	}
	if params.NewChat == nil {
		return nil, fmt.Errorf("chat factory is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Registry{
		sessions:    map[uuid.UUID]*Controller{},
		feeds:       params.Feeds,
		snapshots:   params.Snapshots,
		submitter:   params.Submitter,
		republisher: params.Republisher,
		newChat:     params.NewChat,
		logg:        params.Logger,
	}, nil
}

// Resolve returns the live session for the profile, creating one on first
// use. Creating the first session starts the snapshot subscriptions.
func (r *Registry) Resolve(ctx context.Context, profile *profiles.ProfileDTO) (*Controller, error) {
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[profile.ID]; ok {
		return existing, nil
	}

	if len(r.sessions) == 0 {
		if err := r.feeds.Start(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "starting snapshot subscriptions")
		}
	}

	chatSession, err := r.newChat()
	if err != nil {
		r.stopFeedsIfEmptyLocked()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating support chat session")
	}

	controller, err := NewController(ControllerParams{
		Profile:     profile,
		Snapshots:   r.snapshots,
		Submitter:   r.submitter,
		Chat:        chatSession,
		Republisher: r.republisher,
		Logger:      r.logg,
	})
	if err != nil {
		r.stopFeedsIfEmptyLocked()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating session controller")
	}

	r.sessions[profile.ID] = controller
	r.logg.Info(r.logg.WithProfileID(ctx, profile.ID.String()), "session started")
	return controller, nil
}

// Get returns the live session for the profile, if any.
func (r *Registry) Get(profileID uuid.UUID) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	controller, ok := r.sessions[profileID]
	return controller, ok
}

// SignOut tears the profile's session down. Removing the last session stops
// the snapshot subscriptions with it.
func (r *Registry) SignOut(ctx context.Context, profileID uuid.UUID) {
	r.mu.Lock()
	controller, ok := r.sessions[profileID]
	if ok {
		delete(r.sessions, profileID)
	}
	empty := len(r.sessions) == 0
	r.mu.Unlock()

	if !ok {
		return
	}
	controller.Teardown()
	if empty {
		r.feeds.Stop()
	}
	r.logg.Info(r.logg.WithProfileID(ctx, profileID.String()), "session ended")
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) stopFeedsIfEmptyLocked() {
	if len(r.sessions) == 0 {
		r.feeds.Stop()
	}
}
