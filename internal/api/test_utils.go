package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/database"
	"github.com/pageza/recipe-genius/backend/internal/middleware"
	"github.com/pageza/recipe-genius/backend/internal/service"
)

// FakeProxy is an httptest generation proxy serving fixed recipes and images
type FakeProxy struct {
	Server        *httptest.Server
	RecipesBody   string
	RecipesStatus int
	RecipesDelay  time.Duration
	recipeCalls   atomic.Int32
}

// NewFakeProxy starts a proxy answering recipe requests with body and image requests
// with an URL derived from the recipe name.
func NewFakeProxy(t *testing.T, body string) *FakeProxy {
	t.Helper()

	p := &FakeProxy{RecipesBody: body, RecipesStatus: http.StatusOK}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch req.Type {
		case "recipes":
			p.recipeCalls.Add(1)
			time.Sleep(p.RecipesDelay)
			w.WriteHeader(p.RecipesStatus)
			w.Write([]byte(p.RecipesBody))
		case "image":
			json.NewEncoder(w).Encode(map[string]string{
				"imageUrl": "https://images.test/" + req.Payload["recipeName"] + ".png",
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid request type"}`))
		}
	}))
	t.Cleanup(p.Server.Close)
	return p
}

// RecipeCalls returns how many recipe requests the proxy received
func (p *FakeProxy) RecipeCalls() int {
	return int(p.recipeCalls.Load())
}

// SetupTestRouter builds a router over a fresh in-memory session talking to proxy
func SetupTestRouter(t *testing.T, proxy *FakeProxy) (*gin.Engine, *service.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{ProxyURL: proxy.Server.URL}
	saved := service.NewSavedRecipes(context.Background(), database.NewMemorySlot(config.DefaultStorageKey, nil), nil, nil)
	session := service.NewSession(
		service.NewInventory(service.SeedIngredients),
		service.NewGenerator(service.NewProxyClient(cfg, nil, nil), nil, nil),
		saved,
	)
	t.Cleanup(func() {
		session.Generator.WaitEnrichment()
		session.Close()
	})

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(nil), middleware.ErrorHandler(nil))
	RegisterRoutes(router, session, Options{})
	return router, session
}

// PerformRequest sends a JSON request through router
func PerformRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
