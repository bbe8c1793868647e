package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// Phase is the lifecycle position of the current generation request.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

// GeneratorState is a snapshot of the generator published to subscribers.
type GeneratorState struct {
	GenerationID string         `json:"generationId,omitempty"`
	Phase        Phase          `json:"phase"`
	Loading      bool           `json:"loading"`
	Error        string         `json:"error,omitempty"`
	Filter       string         `json:"filter"`
	Recipes      []model.Recipe `json:"recipes"`
}

// Generator runs recipe generation: the recipe list first, then one image request per recipe
// in the background. Image results are merged into the current list only while the recipe
// at that position still has the same name.
type Generator struct {
	mu           sync.Mutex
	generationID string
	phase        Phase
	loading      bool
	err          string
	filter       string
	recipes      []model.Recipe

	pubMu       sync.Mutex
	subscribers map[int]func(GeneratorState)
	nextSub     int

	inflight sync.WaitGroup

	proxy   RecipeProxy
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewGenerator creates an idle generator backed by proxy.
func NewGenerator(proxy RecipeProxy, l *zap.Logger, m *metrics.Metrics) *Generator {
	return &Generator{
		phase:       PhaseIdle,
		recipes:     []model.Recipe{},
		subscribers: make(map[int]func(GeneratorState)),
		proxy:       proxy,
		logger:      logger.OrNop(l).Named("generator"),
		metrics:     m,
	}
}

// Submit generates recipes for selection and blocks until the recipe list is settled.
// It returns false without calling the proxy when selection is empty or a request is in flight.
// Image enrichment keeps running after Submit returns. Cancelling ctx does not cancel the
// proxy request.
func (g *Generator) Submit(ctx context.Context, selection []string) bool {
	id, ok := g.begin(selection)
	if !ok {
		return false
	}
	g.generate(context.WithoutCancel(ctx), id, selection)
	return true
}

// SubmitAsync is Submit without waiting for the recipe list. The request outlives ctx cancellation.
func (g *Generator) SubmitAsync(ctx context.Context, selection []string) bool {
	id, ok := g.begin(selection)
	if !ok {
		return false
	}

	selection = append([]string(nil), selection...)
	detached := context.WithoutCancel(ctx)
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		g.generate(detached, id, selection)
	}()
	return true
}

func (g *Generator) begin(selection []string) (string, bool) {
	g.mu.Lock()
	if len(selection) == 0 || g.loading {
		g.mu.Unlock()
		g.metrics.Submission(metrics.OutcomeIgnored)
		return "", false
	}

	id := uuid.NewString()
	g.generationID = id
	g.err = ""
	g.recipes = []model.Recipe{}
	g.filter = ""
	g.loading = true
	g.phase = PhaseSubmitting
	g.mu.Unlock()

	g.logger.Info("generating recipes",
		zap.String("generation_id", id),
		zap.Strings("ingredients", selection),
	)
	g.publish()
	return id, true
}

func (g *Generator) generate(ctx context.Context, id string, selection []string) {
	recipes, err := g.proxy.GenerateRecipes(ctx, strings.Join(selection, ", "))

	g.mu.Lock()
	g.loading = false
	if err != nil {
		g.err = userMessage(err)
		g.recipes = []model.Recipe{}
		g.phase = PhaseFailed
		g.mu.Unlock()

		g.logger.Error("recipe generation failed", zap.String("generation_id", id), zap.Error(err))
		g.metrics.Submission(metrics.OutcomeFailure)
		g.publish()
		return
	}

	g.recipes = model.CloneRecipes(recipes)
	g.phase = PhaseReady
	g.mu.Unlock()

	g.logger.Info("recipes generated", zap.String("generation_id", id), zap.Int("count", len(recipes)))
	g.metrics.Submission(metrics.OutcomeSuccess)
	g.publish()

	g.enrich(context.WithoutCancel(ctx), id, model.CloneRecipes(recipes))
}

// enrich requests an image for every recipe concurrently. Failures only affect their own recipe.
func (g *Generator) enrich(ctx context.Context, id string, recipes []model.Recipe) {
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()

		var eg errgroup.Group
		for i, r := range recipes {
			i, r := i, r // per-iteration copies (go.mod targets Go 1.21 loop semantics)
			eg.Go(func() error {
				url, err := g.proxy.GenerateImage(ctx, r.RecipeName, r.Description)
				if err != nil {
					g.logger.Warn("image generation failed",
						zap.String("generation_id", id),
						zap.String("recipe", r.RecipeName),
						zap.Error(err),
					)
					g.metrics.Image(metrics.OutcomeFailure)
					return nil
				}
				g.metrics.Image(metrics.OutcomeSuccess)
				g.applyImage(id, i, r.RecipeName, url)
				return nil
			})
		}
		_ = eg.Wait()

		g.mu.Lock()
		done := g.generationID == id && g.phase == PhaseReady
		if done {
			g.phase = PhaseIdle
		}
		g.mu.Unlock()
		if done {
			g.publish()
		}
	}()
}

func (g *Generator) applyImage(id string, index int, name, url string) {
	g.mu.Lock()
	merged := mergeImage(g.recipes, index, name, url)
	g.mu.Unlock()

	if !merged {
		g.logger.Debug("dropping stale image",
			zap.String("generation_id", id),
			zap.Int("index", index),
			zap.String("recipe", name),
		)
		g.metrics.StaleImage()
		return
	}
	g.publish()
}

// mergeImage sets the image of list[index] if that slot still holds the recipe called name.
func mergeImage(list []model.Recipe, index int, name, url string) bool {
	if index < 0 || index >= len(list) || list[index].RecipeName != name {
		return false
	}
	list[index].ImageURL = url
	return true
}

// WaitEnrichment blocks until every in-flight generation and image request has finished.
func (g *Generator) WaitEnrichment() {
	g.inflight.Wait()
}

// SetFilter changes the query applied by Visible.
func (g *Generator) SetFilter(query string) {
	g.mu.Lock()
	changed := g.filter != query
	g.filter = query
	g.mu.Unlock()

	if changed {
		g.publish()
	}
}

func (g *Generator) Filter() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter
}

// Visible returns the current recipes matching the filter.
func (g *Generator) Visible() []model.Recipe {
	g.mu.Lock()
	defer g.mu.Unlock()
	return FilterRecipes(g.recipes, g.filter)
}

func (g *Generator) Recipes() []model.Recipe {
	g.mu.Lock()
	defer g.mu.Unlock()
	return model.CloneRecipes(g.recipes)
}

// Recipe returns the current recipe named name.
func (g *Generator) Recipe(name string) (model.Recipe, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := model.IndexByName(g.recipes, name)
	if i < 0 {
		return model.Recipe{}, false
	}
	return g.recipes[i].Clone(), true
}

func (g *Generator) State() GeneratorState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GeneratorState{
		GenerationID: g.generationID,
		Phase:        g.phase,
		Loading:      g.loading,
		Error:        g.err,
		Filter:       g.filter,
		Recipes:      model.CloneRecipes(g.recipes),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// Callbacks run synchronously and must not block.
func (g *Generator) Subscribe(fn func(GeneratorState)) func() {
	g.pubMu.Lock()
	defer g.pubMu.Unlock()

	id := g.nextSub
	g.nextSub++
	g.subscribers[id] = fn

	return func() {
		g.pubMu.Lock()
		defer g.pubMu.Unlock()
		delete(g.subscribers, id)
	}
}

func (g *Generator) publish() {
	g.pubMu.Lock()
	defer g.pubMu.Unlock()

	if len(g.subscribers) == 0 {
		return
	}
	state := g.State()
	for _, fn := range g.subscribers {
		fn(state)
	}
}
