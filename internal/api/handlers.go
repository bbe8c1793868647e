package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/middleware"
	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// Options holds the optional collaborators of the API routes
type Options struct {
	Logger *zap.Logger
	// GenerateLimiter limits POST /recipes/generate per client when set
	GenerateLimiter middleware.Limiter
	// StoreHealth is pinged by the health routes when set
	StoreHealth database.HealthChecker
}

// HealthCheck returns the health status of the API and of store when it is not nil
func HealthCheck(store database.HealthChecker, l *zap.Logger) gin.HandlerFunc {
	l = logger.OrNop(l)
	return func(c *gin.Context) {
		if store != nil {
			if err := store.HealthCheck(c.Request.Context()); err != nil {
				l.Error("saved-recipe store is unreachable", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "saved-recipe store is unreachable",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Recipe Genius API is running",
			"version": "v1.0.0",
		})
	}
}

// RegisterRoutes registers all API routes for session
func RegisterRoutes(router *gin.Engine, session *service.Session, opts Options) {
	l := logger.OrNop(opts.Logger)

	health := HealthCheck(opts.StoreHealth, l)
	router.GET("/health", health)
	router.GET("/api/health", health)

	var generateMiddleware []gin.HandlerFunc
	if opts.GenerateLimiter != nil {
		generateMiddleware = append(generateMiddleware, middleware.RateLimit(opts.GenerateLimiter, l))
	}

	v1 := router.Group("/api/v1")
	v1.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Snapshot())
	})

	NewInventoryHandler(session, l).RegisterRoutes(v1)
	NewRecipeHandler(session, l, generateMiddleware...).RegisterRoutes(v1)
	NewSavedHandler(session, l).RegisterRoutes(v1)
	NewEventsHandler(session, l).RegisterRoutes(v1)
}
