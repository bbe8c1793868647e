package service

import (
	"context"
	"sync"

	"github.com/pageza/recipe-genius/backend/internal/model"
)

// RecipeCard is a displayed recipe with its presentation flags.
type RecipeCard struct {
	model.Recipe
	Saved        bool `json:"saved"`
	ImagePending bool `json:"imagePending"`
}

// Snapshot is the full presentation view of a session.
type Snapshot struct {
	Inventory    []string       `json:"inventory"`
	Selected     []string       `json:"selected"`
	Recipes      []RecipeCard   `json:"recipes"`
	SavedRecipes []model.Recipe `json:"savedRecipes"`
	Loading      bool           `json:"loading"`
	Error        string         `json:"error,omitempty"`
	Filter       string         `json:"filter"`
	Phase        Phase          `json:"phase"`
	GenerationID string         `json:"generationId,omitempty"`
}

// Session binds the inventory, the generator and the saved collection of one user.
type Session struct {
	Inventory *Inventory
	Generator *Generator
	Saved     *SavedRecipes

	mu          sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSub     int
	unsubscribe func()
}

// NewSession wires the components together and starts re-publishing their changes.
func NewSession(inv *Inventory, gen *Generator, saved *SavedRecipes) *Session {
	s := &Session{
		Inventory:   inv,
		Generator:   gen,
		Saved:       saved,
		subscribers: make(map[int]func(Snapshot)),
	}
	s.unsubscribe = gen.Subscribe(func(GeneratorState) { s.Notify() })
	saved.OnChange(s.Notify)
	return s
}

// Submit generates recipes from the current selection and waits for the recipe list.
func (s *Session) Submit(ctx context.Context) bool {
	return s.Generator.Submit(ctx, s.Inventory.Selected())
}

// SubmitAsync starts generation from the current selection and returns immediately.
func (s *Session) SubmitAsync(ctx context.Context) bool {
	return s.Generator.SubmitAsync(ctx, s.Inventory.Selected())
}

// Snapshot builds the current presentation view.
func (s *Session) Snapshot() Snapshot {
	state := s.Generator.State()

	return Snapshot{
		Inventory:    s.Inventory.Items(),
		Selected:     s.Inventory.Selected(),
		Recipes:      s.cards(state.Recipes, state.Filter),
		SavedRecipes: s.Saved.List(),
		Loading:      state.Loading,
		Error:        state.Error,
		Filter:       state.Filter,
		Phase:        state.Phase,
		GenerationID: state.GenerationID,
	}
}

// Cards returns the current recipes matching query. The stored filter is left unchanged.
func (s *Session) Cards(query string) []RecipeCard {
	return s.cards(s.Generator.Recipes(), query)
}

func (s *Session) cards(recipes []model.Recipe, query string) []RecipeCard {
	visible := FilterRecipes(recipes, query)

	cards := make([]RecipeCard, len(visible))
	for i, r := range visible {
		cards[i] = RecipeCard{
			Recipe:       r,
			Saved:        s.Saved.IsSaved(r.RecipeName),
			ImagePending: !r.HasImage(),
		}
	}
	return cards
}

// Subscribe registers fn to receive a snapshot after every change. Callbacks must not block.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Notify publishes the current snapshot. Inventory changes are not observed automatically,
// so callers mutating the inventory call Notify themselves.
func (s *Session) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subscribers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// Close detaches the session from the generator.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Saved.OnChange(nil)
}
