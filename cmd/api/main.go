package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atacadolink/atacadolink-backend/api/controllers"
	"github.com/atacadolink/atacadolink-backend/api/routes"
	"github.com/atacadolink/atacadolink-backend/internal/auth"
	"github.com/atacadolink/atacadolink-backend/internal/backoffice"
	"github.com/atacadolink/atacadolink-backend/internal/cart"
	"github.com/atacadolink/atacadolink-backend/internal/chat"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/identity"
	"github.com/atacadolink/atacadolink-backend/internal/livesync"
	"github.com/atacadolink/atacadolink-backend/internal/orders"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	appsession "github.com/atacadolink/atacadolink-backend/internal/session"
	"github.com/atacadolink/atacadolink-backend/pkg/auth/session"
	"github.com/atacadolink/atacadolink-backend/pkg/config"
	"github.com/atacadolink/atacadolink-backend/pkg/db"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/atacadolink/atacadolink-backend/pkg/inference"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	pubsubclient "github.com/atacadolink/atacadolink-backend/pkg/pubsub"
	"github.com/atacadolink/atacadolink-backend/pkg/redis"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsubclient.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	inferenceClient, err := inference.NewClient(context.Background(), cfg.Inference, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap inference client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	profileRepo := profiles.NewRepository(dbClient.DB())
	entityRepo := entities.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	syncManager, err := livesync.NewManager(livesync.ManagerParams{
		ProductsFeed: pubsubClient.CollectionSubscription(enums.CollectionKindProducts),
		EntitiesFeed: pubsubClient.CollectionSubscription(enums.CollectionKindEntities),
		OrdersFeed:   pubsubClient.CollectionSubscription(enums.CollectionKindOrders),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create livesync manager", err)
		os.Exit(1)
	}

	broadcaster, err := livesync.NewPubSubBroadcaster(pubsubClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot broadcaster", err)
		os.Exit(1)
	}

	publisher, err := livesync.NewPublisher(livesync.PublisherParams{
		Products:    productRepo,
		Entities:    entityRepo,
		Orders:      orderRepo,
		Broadcaster: broadcaster,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot publisher", err)
		os.Exit(1)
	}

	submitter, err := cart.NewSubmitter(cart.SubmitterParams{Orders: orderRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart submitter", err)
		os.Exit(1)
	}

	resolver, err := identity.NewResolver(identity.ResolverParams{
		Store:  profileRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity resolver", err)
		os.Exit(1)
	}

	newChat := func() (*chat.Session, error) {
		return chat.NewSession(chat.SessionParams{
			Client: inferenceClient,
			Logger: logg,
		})
	}

	registry, err := appsession.NewRegistry(appsession.RegistryParams{
		Feeds:       syncManager,
		Snapshots:   syncManager,
		Submitter:   submitter,
		Republisher: publisher,
		NewChat:     newChat,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session registry", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profileRepo,
		Resolver:       resolver,
		Registry:       registry,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	backofficeService, err := backoffice.NewService(backoffice.ServiceParams{
		ProductRepo: productRepo,
		EntityRepo:  entityRepo,
		ProfileRepo: profileRepo,
		Republisher: publisher,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create backoffice service", err)
		os.Exit(1)
	}

	sessionHub, err := controllers.NewSessionHub(registry, resolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create session hub", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:            cfg,
			Logger:            logg,
			DB:                dbClient,
			Redis:             redisClient,
			PubSub:            pubsubClient,
			SessionChecker:    sessionManager,
			AuthService:       authService,
			BackofficeService: backofficeService,
			SessionHub:        sessionHub,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
		syncManager.Stop()
	}
}
