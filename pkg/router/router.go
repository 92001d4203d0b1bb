package router

import (
	"net/http"
	"slices"
	"time"

	"chatbot-evaluation/backend/internal/api"
	"chatbot-evaluation/backend/pkg/config"
	"chatbot-evaluation/backend/pkg/di"
	"chatbot-evaluation/backend/pkg/errors"
	"chatbot-evaluation/backend/pkg/logger"
	"chatbot-evaluation/backend/pkg/middleware"
	"chatbot-evaluation/backend/pkg/observability"
	"chatbot-evaluation/backend/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
	Metrics   *observability.Metrics

	RateLimiter *middleware.RateLimiter
	OpenAPI     *validator.OpenAPIValidator
}

// New creates a new router with the given container. metrics may be nil when
// the Prometheus endpoint is disabled.
func New(container *di.Container, metrics *observability.Metrics) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	cfg := container.Config

	// Configure Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		container.Logger.Warn("Invalid trusted proxies, trusting none", "error", err.Error())
		_ = engine.SetTrustedProxies(nil)
	}

	// Request IDs first so every later log line carries them
	engine.Use(middleware.RequestIDMiddleware())

	// Use the logger middleware to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	engine.Use(corsMiddleware(cfg.Security.AllowedOrigins))
	engine.Use(bodyLimit(cfg.Security.MaxBodySize))

	// Apply rate limiting to all routes but health and metrics
	options := middleware.DefaultRateLimiterOptions()
	options.Limit = rate.Limit(cfg.Security.RateLimit)
	options.Burst = cfg.Security.RateLimitBurst
	options.InferenceLimit = rate.Limit(cfg.Security.InferenceRateLimit)
	options.InferenceBurst = cfg.Security.InferenceRateLimitBurst
	limiter := middleware.NewRateLimiter(container.Logger, options)
	engine.Use(limiter.Middleware())

	return &Router{
		Engine:      engine,
		Container:   container,
		Logger:      container.Logger,
		Config:      cfg,
		Metrics:     metrics,
		RateLimiter: limiter,
	}
}

// Stop releases the background work started by the middleware chain. It is
// safe to call more than once.
func (r *Router) Stop() {
	r.RateLimiter.Stop()
}

// SetupRoutes registers all application routes. Schema validation is
// installed first because gin binds middleware at registration time.
func (r *Router) SetupRoutes() {
	if r.Config.OpenAPI.SchemaPath != "" {
		r.AddOpenAPIValidation(r.Config.OpenAPI.SchemaPath)
	}

	r.setupHealthRoutes()

	if r.Metrics != nil {
		r.Engine.GET("/metrics", gin.WrapH(r.Metrics.Handler()))
	}

	apiGroup := r.Engine.Group("/api")
	api.NewStudyController(r.Container.EvaluationService).RegisterRoutes(apiGroup)
	api.NewChatController(r.Container.EvaluationService, r.Container.ChatService).RegisterRoutes(apiGroup)
	api.NewSurveyController(r.Container.SurveyService).RegisterRoutes(apiGroup)
	api.NewResultsController(r.Container.ResultsService).RegisterRoutes(apiGroup)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			middleware.HeaderRequestID, middleware.HeaderCorrelationID,
		},
		ExposeHeaders: []string{middleware.HeaderRequestID, middleware.HeaderCorrelationID},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}

// bodyLimit caps request bodies at limit bytes
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
