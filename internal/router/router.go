package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/api"
	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/middleware"
	"github.com/pageza/recipe-genius/backend/internal/service"
)

// Deps holds everything the routes are built from
type Deps struct {
	Config          *config.Config
	Session         *service.Session
	Metrics         *metrics.Metrics
	GenerateLimiter middleware.Limiter
	StoreHealth     database.HealthChecker
	Logger          *zap.Logger
}

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.Config.AllowedOrigins),
		middleware.ErrorHandler(deps.Logger),
	)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api.RegisterRoutes(router, deps.Session, api.Options{
		Logger:          deps.Logger,
		GenerateLimiter: deps.GenerateLimiter,
		StoreHealth:     deps.StoreHealth,
	})

	return router
}
