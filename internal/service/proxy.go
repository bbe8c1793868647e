package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// Request types understood by the proxy
const (
	requestRecipes = "recipes"
	requestImage   = "image"
)

// ProxyRequest is the envelope posted to the generation proxy
type ProxyRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type recipesPayload struct {
	Ingredients string `json:"ingredients"`
}

type imagePayload struct {
	RecipeName  string `json:"recipeName"`
	Description string `json:"description"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ProxyClient talks to the recipe generation proxy. Each call is a single attempt.
type ProxyClient struct {
	url      string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewProxyClient creates a client for cfg.ProxyURL. A zero ProxyTimeout means no client timeout.
func NewProxyClient(cfg *config.Config, l *zap.Logger, m *metrics.Metrics) *ProxyClient {
	return &ProxyClient{
		url:      cfg.ProxyURL,
		client:   &http.Client{Timeout: cfg.ProxyTimeout},
		validate: validator.New(),
		logger:   logger.OrNop(l).Named("proxy"),
		metrics:  m,
	}
}

// GenerateRecipes asks the proxy for recipes built from a comma-separated ingredient list.
// The returned recipes never carry an image URL.
func (c *ProxyClient) GenerateRecipes(ctx context.Context, ingredients string) ([]model.Recipe, error) {
	body, err := c.call(ctx, requestRecipes, recipesPayload{Ingredients: ingredients})
	if err != nil {
		c.logger.Error("error generating recipes", zap.Error(err))
		return nil, &GenerationError{Err: err}
	}

	var recipes []model.Recipe
	if err := json.Unmarshal(body, &recipes); err != nil {
		c.logger.Error("error decoding recipes", zap.Error(err))
		return nil, &GenerationError{Err: fmt.Errorf("failed to decode recipes: %w", err)}
	}
	if recipes == nil {
		return nil, &GenerationError{Err: errors.New("proxy returned no recipe array")}
	}

	for i := range recipes {
		if err := c.validate.Struct(&recipes[i]); err != nil {
			c.logger.Error("invalid recipe in response", zap.Int("index", i), zap.Error(err))
			return nil, &GenerationError{Err: fmt.Errorf("invalid recipe at index %d: %w", i, err)}
		}
		recipes[i].ImageURL = ""
	}

	c.logger.Debug("generated recipes", zap.Int("count", len(recipes)))
	return recipes, nil
}

// GenerateImage asks the proxy for an image of the named recipe and returns its URL.
func (c *ProxyClient) GenerateImage(ctx context.Context, recipeName, description string) (string, error) {
	body, err := c.call(ctx, requestImage, imagePayload{RecipeName: recipeName, Description: description})
	if err != nil {
		c.logger.Error("error generating image", zap.String("recipe", recipeName), zap.Error(err))
		return "", &ImageGenerationError{RecipeName: recipeName, Err: err}
	}

	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ImageGenerationError{RecipeName: recipeName, Err: fmt.Errorf("failed to decode image response: %w", err)}
	}
	if err := c.validate.Struct(&resp); err != nil {
		c.logger.Error("no image URL was returned by the proxy", zap.String("recipe", recipeName))
		return "", &ImageGenerationError{RecipeName: recipeName, Err: fmt.Errorf("no image URL was returned: %w", err)}
	}

	return resp.ImageURL, nil
}

// call posts one request envelope and returns the body of a 200 response.
func (c *ProxyClient) call(ctx context.Context, kind string, payload interface{}) ([]byte, error) {
	start := time.Now()
	outcome := metrics.OutcomeFailure
	defer func() {
		c.metrics.ProxyCall(kind, outcome, time.Since(start).Seconds())
	}()

	reqBody, err := json.Marshal(ProxyRequest{Type: kind, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: msgUnknownAPI}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Error
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		c.logger.Warn("proxy returned an error",
			zap.String("type", kind),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Message),
		)
		return nil, apiErr
	}

	outcome = metrics.OutcomeSuccess
	return body, nil
}
