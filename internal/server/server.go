package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/middleware"
	"github.com/pageza/recipe-genius/backend/internal/router"
	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// Server represents the HTTP server and the session it serves
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	logger  *zap.Logger
	session *service.Session
	metrics *metrics.Metrics

	closers     []func() error
	stopWatcher context.CancelFunc
}

// New opens the configured saved-recipe store and builds a server around it
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Server, error) {
	l = logger.OrNop(l)

	store, closeStore, err := database.OpenStore(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open saved-recipe store: %w", err)
	}

	s := NewWithStore(ctx, cfg, store, l)
	s.closers = append(s.closers, closeStore)
	return s, nil
}

// NewWithStore builds a server around an already opened store
func NewWithStore(ctx context.Context, cfg *config.Config, store database.Store, l *zap.Logger) *Server {
	l = logger.OrNop(l)
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	saved := service.NewSavedRecipes(ctx, store, l, m)
	session := service.NewSession(
		service.NewInventory(service.SeedIngredients),
		service.NewGenerator(service.NewProxyClient(cfg, l, m), l, m),
		saved,
	)

	s := &Server{
		cfg:     cfg,
		logger:  l,
		session: session,
		metrics: m,
	}

	var limiter middleware.Limiter
	if cfg.GenerateRateLimit > 0 {
		limiter = middleware.NewGenerateRateLimiter(s.rateLimitRedis(store), cfg.GenerateRateLimit)
	}

	health, _ := store.(database.HealthChecker)
	s.router = router.SetupRouter(router.Deps{
		Config:          cfg,
		Session:         session,
		Metrics:         m,
		GenerateLimiter: limiter,
		StoreHealth:     health,
		Logger:          l,
	})

	if w, ok := store.(database.Watcher); ok && cfg.StorageWatch {
		s.watch(w)
	}

	return s
}

// rateLimitRedis returns the Redis connection for the generation limiter, sharing the
// store's connection when saved recipes live in Redis. Without Redis the limiter runs in process.
func (s *Server) rateLimitRedis(store database.Store) *redis.Client {
	if rs, ok := store.(*database.RedisSlot); ok {
		return rs.Client()
	}
	if s.cfg.RedisURL == "" && s.cfg.StorageBackend != config.StorageRedis {
		return nil
	}
	client, err := database.NewRedisClient(s.cfg, s.logger)
	if err != nil {
		s.logger.Warn("rate limiting without Redis", zap.Error(err))
		return nil
	}
	s.closers = append(s.closers, client.Close)
	return client
}

// watch reloads the saved mirror whenever another process changes the store
func (s *Server) watch(w database.Watcher) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopWatcher = cancel

	err := w.Watch(ctx, func() {
		if err := s.session.Saved.Reload(ctx); err != nil {
			s.logger.Error("failed to reload saved recipes", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to watch saved-recipe store", zap.Error(err))
	}
}

// Router returns the HTTP handler
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Session returns the session served by the routes
func (s *Server) Session() *service.Session {
	return s.session
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight generations until ctx expires
// and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.stopWatcher != nil {
		s.stopWatcher()
	}

	done := make(chan struct{})
	go func() {
		s.session.Generator.WaitEnrichment()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("shutdown before image generation finished")
	}

	s.session.Close()
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
