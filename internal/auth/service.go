package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atacadolink/atacadolink-backend/internal/identity"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	appsession "github.com/atacadolink/atacadolink-backend/internal/session"
	pkgauth "github.com/atacadolink/atacadolink-backend/pkg/auth"
	"github.com/atacadolink/atacadolink-backend/pkg/auth/session"
	"github.com/atacadolink/atacadolink-backend/pkg/config"
	"github.com/atacadolink/atacadolink-backend/pkg/db"
	"github.com/atacadolink/atacadolink-backend/pkg/db/models"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/atacadolink/atacadolink-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*SessionTokens, error)
	Logout(ctx context.Context, req LogoutRequest) error
}

type profileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type profileResolver interface {
	Resolve(ctx context.Context, event identity.AuthEvent) (*profiles.ProfileDTO, error)
}

type sessionRegistry interface {
	Resolve(ctx context.Context, profile *profiles.ProfileDTO) (*appsession.Controller, error)
	SignOut(ctx context.Context, profileID uuid.UUID)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	profiles profileRepository
	resolver profileResolver
	registry sessionRegistry
	session  sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	ProfileRepo    profileRepository
	Resolver       profileResolver
	Registry       sessionRegistry
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("profile resolver is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		profiles: params.ProfileRepo,
		resolver: params.Resolver,
		registry: params.Registry,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		logg:     params.Logger,
		now:      now,
	}, nil
}

// Login verifies the credentials, resolves the application profile, and opens
// a live session. Credential failures are rejected; profile-store hiccups
// after a verified password never block the sign-in.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	record, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, record)

	profile, err := s.resolver.Resolve(ctx, identity.AuthEvent{
		ProfileID:   record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, profile)
}

// Register provisions a representative profile and signs it in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	record, err := s.profiles.Create(ctx, profiles.CreateProfileDTO{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         enums.ProfileRoleRepresentative,
		Category:     req.Category,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
	}

	return s.openSession(ctx, profiles.FromModel(record))
}

// Refresh rotates the refresh token and re-mints the access token with the
// claims carried by the expired one.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*SessionTokens, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
	}

	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate refresh token")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		ProfileID:      claims.ProfileID,
		ActiveEntityID: claims.ActiveEntityID,
		Role:           claims.Role,
		JTI:            newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &SessionTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the refresh session and tears down the live app session.
// Teardown always proceeds even when the token revocation fails.
func (s *service) Logout(ctx context.Context, req LogoutRequest) error {
	if strings.TrimSpace(req.AccessID) != "" {
		if err := s.session.Revoke(ctx, req.AccessID); err != nil {
			s.logg.Error(ctx, "revoking refresh session", err)
		}
	}
	if req.ProfileID != uuid.Nil {
		s.registry.SignOut(ctx, req.ProfileID)
	}
	return nil
}

func (s *service) openSession(ctx context.Context, profile *profiles.ProfileDTO) (*LoginResponse, error) {
	if _, err := s.registry.Resolve(ctx, profile); err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		ProfileID: profile.ID,
		Role:      profile.Role,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		SessionTokens: SessionTokens{AccessToken: accessToken, RefreshToken: refreshToken},
		Profile:       profile,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	record, err := s.profiles.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	valid, err := security.VerifyPassword(password, record.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !record.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return record, nil
}

// recordLogin is best-effort bookkeeping after the password has already been
// verified. A failing write is logged and the sign-in continues.
func (s *service) recordLogin(ctx context.Context, record *models.Profile) {
	now := s.now().UTC()
	if err := s.profiles.TouchLastLogin(ctx, record.ID, now); err != nil {
		s.logg.Error(ctx, "recording last login", err)
		return
	}
	record.LastLoginAt = &now
}
