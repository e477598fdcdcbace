package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"

	"contentscale/internal/config"
	"contentscale/internal/domain/repositories"
	"contentscale/internal/domain/services"
	"contentscale/internal/infrastructure/cache"
	"contentscale/internal/infrastructure/database"
	"contentscale/internal/infrastructure/memory"
	httpapi "contentscale/internal/interfaces/http"
	"contentscale/internal/providers"
	"contentscale/internal/stream"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	stripe.Key = cfg.Billing.StripeSecret

	var (
		userRepo      repositories.UserRepository
		contentRepo   repositories.ContentRepository
		creditRepo    repositories.CreditRepository
		keyRepo       repositories.APIKeyRepository
		seoRepo       repositories.SeoAnalysisRepository
		analyticsRepo repositories.AnalyticsRepository
	)

	var entCache services.EntitlementCache
	var publisher services.GenerationPublisher
	var redisPublisher *stream.RedisPublisher

	switch cfg.Storage.Backend {
	case "memory":
		store := memory.New()
		userRepo = store
		contentRepo = store
		creditRepo = store
		keyRepo = store
		seoRepo = store
		analyticsRepo = store
		logger.Info("using in-memory storage")

	default:
		db, err := database.NewPostgresConnection(&cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		userRepo = database.NewUserRepository(db)
		contentRepo = database.NewContentRepository(db)
		creditRepo = database.NewCreditRepository(db)
		keyRepo = database.NewAPIKeyRepository(db)
		seoRepo = database.NewSeoAnalysisRepository(db)
		analyticsRepo = database.NewAnalyticsRepository(db)

		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		entCache = cache.NewEntitlementCache(redisClient, logger)
		redisPublisher = stream.NewRedisPublisher(redisClient.Client, logger)
		publisher = redisPublisher
	}

	jwtService := services.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.Expiration)*time.Second)
	ledger := services.NewLedgerService(userRepo, creditRepo, entCache, logger)
	authService := services.NewAuthService(userRepo, ledger, jwtService, logger)

	ai := providers.NewManager(
		providers.NewOpenAIClient(cfg.AI.OpenAIKey),
		providers.NewPerplexityClient(cfg.AI.PerplexityKey),
	)

	contentService := services.NewContentService(contentRepo, ledger, ai, publisher, logger)
	seoService := services.NewSeoService(seoRepo, contentRepo, ai, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo, ai, logger)
	billingService := services.NewStripeBillingService(userRepo, ledger, logger)
	keyService := services.NewAPIKeyService(keyRepo, ledger, logger)

	var streamHandler http.Handler
	if redisPublisher != nil {
		streamHandler = stream.NewWSHandler(redisPublisher, jwtService, logger)
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:               authService,
		JWT:                jwtService,
		Ledger:             ledger,
		Content:            contentService,
		Seo:                seoService,
		Analytics:          analyticsService,
		Billing:            billingService,
		APIKeys:            keyService,
		StreamHandler:      streamHandler,
		CheckoutSuccessURL: cfg.Billing.SuccessURL,
		CheckoutCancelURL:  cfg.Billing.CancelURL,
		OperatorToken:      cfg.Billing.OperatorToken,
		Logger:             logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
