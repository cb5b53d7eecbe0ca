package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atacadolink/atacadolink-backend/api/controllers"
	"github.com/atacadolink/atacadolink-backend/api/middleware"
	"github.com/atacadolink/atacadolink-backend/internal/auth"
	"github.com/atacadolink/atacadolink-backend/internal/backoffice"
	"github.com/atacadolink/atacadolink-backend/pkg/auth/session"
	"github.com/atacadolink/atacadolink-backend/pkg/config"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/atacadolink/atacadolink-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config            *config.Config
	Logger            *logger.Logger
	DB                pinger
	Redis             *redis.Client
	PubSub            pinger
	SessionChecker    session.AccessSessionChecker
	AuthService       auth.Service
	BackofficeService backoffice.Service
	SessionHub        *controllers.SessionHub
}

// NewRouter assembles the API routes with the shared middleware chain.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis, p.PubSub))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Post("/auth/logout", controllers.AuthLogout(p.AuthService, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionState(p.SessionHub, logg))
			r.Post("/view", controllers.SessionSelectView(p.SessionHub, logg))
			r.Get("/entities", controllers.SessionEntities(p.SessionHub, logg))
			r.Post("/entity", controllers.SessionSelectEntity(p.SessionHub, logg))
			r.Post("/entity/switch", controllers.SessionReopenEntityChooser(p.SessionHub, logg))
		})

		r.Get("/catalog", controllers.Catalog(p.SessionHub, logg))
		r.Get("/orders", controllers.OrderHistory(p.SessionHub, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.SessionHub, logg))
			r.Delete("/", controllers.CartClear(p.SessionHub, logg))
			r.Post("/items", controllers.CartAddItem(p.SessionHub, logg))
			r.Patch("/items/{productId}", controllers.CartAdjustItem(p.SessionHub, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(p.SessionHub, logg))
			r.Post("/submit", controllers.CartSubmit(p.SessionHub, logg))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", controllers.ChatTranscript(p.SessionHub, logg))
			r.Post("/messages", controllers.ChatSend(p.SessionHub, logg))
		})

		r.Route("/backoffice", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Get("/products", controllers.BackofficeListProducts(p.BackofficeService, p.SessionHub, logg))
			r.Post("/products", controllers.BackofficeCreateProduct(p.BackofficeService, p.SessionHub, logg))
			r.Patch("/products/{productId}", controllers.BackofficeUpdateProduct(p.BackofficeService, p.SessionHub, logg))

			r.Get("/entities", controllers.BackofficeListEntities(p.BackofficeService, p.SessionHub, logg))
			r.Post("/entities", controllers.BackofficeCreateEntity(p.BackofficeService, p.SessionHub, logg))
			r.Patch("/entities/{entityId}", controllers.BackofficeUpdateEntity(p.BackofficeService, p.SessionHub, logg))

			r.Put("/profiles/{profileId}/entities", controllers.BackofficeSetProfileEntities(p.BackofficeService, p.SessionHub, logg))
		})
	})

	return r
}
