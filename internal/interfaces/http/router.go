package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/handlers"
	"contentscale/internal/interfaces/http/middleware"
)

type RouterDeps struct {
	Auth      services.AuthService
	JWT       services.JWTService
	Ledger    services.LedgerService
	Content   services.ContentService
	Seo       services.SeoService
	Analytics services.AnalyticsService
	Billing   services.BillingService
	APIKeys   services.APIKeyService

	StreamHandler http.Handler

	CheckoutSuccessURL string
	CheckoutCancelURL  string
	OperatorToken      string

	Logger *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.JWTAuthMiddleware(deps.JWT))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "contentscale",
			"time":    time.Now(),
		})
	})

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Ledger)
	creditsHandler := handlers.NewCreditsHandler(deps.Ledger, deps.Billing, deps.CheckoutSuccessURL, deps.CheckoutCancelURL, deps.OperatorToken)
	contentHandler := handlers.NewContentHandler(deps.Content)
	seoHandler := handlers.NewSeoHandler(deps.Seo)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)
	keyHandler := handlers.NewAPIKeyHandler(deps.APIKeys)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
		api.GET("/user/profile", authHandler.Profile)

		credits := api.Group("/credits")
		{
			credits.GET("/entitlement", creditsHandler.GetEntitlement)
			credits.GET("/transactions", creditsHandler.ListTransactions)
			credits.GET("/packages", creditsHandler.ListPackages)
			credits.POST("/checkout", creditsHandler.CreateCheckout)
			credits.GET("/checkout/complete", creditsHandler.CompleteCheckout)
			credits.POST("/refund", creditsHandler.Refund)
		}

		content := api.Group("/content")
		{
			content.POST("/generate", contentHandler.Generate)
			content.GET("", contentHandler.List)
			content.DELETE("/:id", contentHandler.Delete)
			content.POST("/bulk-delete", contentHandler.BulkDelete)
			content.POST("/keywords", contentHandler.Keywords)
			content.POST("/titles", contentHandler.Titles)
			content.POST("/outline", contentHandler.Outline)
			content.POST("/nlp-keywords", contentHandler.NLPKeywords)
		}

		seo := api.Group("/seo")
		{
			seo.POST("/intent-mapping", seoHandler.IntentMapping)
			seo.POST("/competitor-dna", seoHandler.CompetitorDNA)
			seo.POST("/voice-search", seoHandler.VoiceSearch)
			seo.POST("/serp-features", seoHandler.SERPFeatures)
			seo.POST("/semantic-web", seoHandler.SemanticWeb)
			seo.POST("/trending-keywords", seoHandler.TrendingKeywords)
			seo.POST("/competitor-gaps", seoHandler.CompetitorGaps)
			seo.POST("/serp-opportunities", seoHandler.SerpOpportunities)
			seo.POST("/eat-optimization", seoHandler.EATOptimization)
			seo.POST("/craft-optimize", seoHandler.CraftOptimize)
			seo.POST("/eat-enhance", seoHandler.EATEnhance)
			seo.POST("/generate-optimized", seoHandler.GenerateOptimized)
			seo.POST("/audit", seoHandler.Audit)
			seo.GET("/analyses", seoHandler.ListAnalyses)
		}

		analytics := api.Group("/analytics")
		{
			analytics.POST("/user-journey", analyticsHandler.UserJourney)
			analytics.POST("/content-performance", analyticsHandler.ContentPerformance)
			analytics.POST("/revenue-attribution", analyticsHandler.RevenueAttribution)
			analytics.POST("/competitor-traffic", analyticsHandler.CompetitorTraffic)
			analytics.POST("/social-sentiment", analyticsHandler.SocialSentiment)
			analytics.POST("/trending-topics", analyticsHandler.TrendingTopics)
			analytics.GET("/records", analyticsHandler.ListRecords)
		}

		keys := api.Group("/keys")
		{
			keys.POST("", keyHandler.Add)
			keys.GET("", keyHandler.List)
			keys.DELETE("/:id", keyHandler.Delete)
		}
	}

	if deps.StreamHandler != nil {
		router.GET("/stream", gin.WrapH(deps.StreamHandler))
	}

	return router
}
