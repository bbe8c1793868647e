package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-genius/backend/internal/metrics"
	"github.com/pageza/recipe-genius/backend/internal/mocks"
	"github.com/pageza/recipe-genius/backend/internal/model"
)

// fakeProxy serves canned recipes and images and records the recipe requests it receives.
type fakeProxy struct {
	mu       sync.Mutex
	requests []string
	recipes  func(ingredients string) ([]model.Recipe, error)
	image    func(name string) (string, error)
}

func (f *fakeProxy) GenerateRecipes(ctx context.Context, ingredients string) ([]model.Recipe, error) {
	f.mu.Lock()
	f.requests = append(f.requests, ingredients)
	f.mu.Unlock()
	return f.recipes(ingredients)
}

func (f *fakeProxy) GenerateImage(ctx context.Context, recipeName, description string) (string, error) {
	return f.image(recipeName)
}

func (f *fakeProxy) recipeRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func namedRecipes(names ...string) []model.Recipe {
	out := make([]model.Recipe, len(names))
	for i, n := range names {
		out[i] = model.Recipe{RecipeName: n, Description: n + " description"}
	}
	return out
}

func TestGenerator_EmptySelectionIsIgnored(t *testing.T) {
	proxy := &mocks.MockRecipeProxy{}
	gen := NewGenerator(proxy, nil, metrics.New())

	assert.False(t, gen.Submit(context.Background(), nil))
	assert.False(t, gen.Submit(context.Background(), []string{}))

	proxy.AssertNotCalled(t, "GenerateRecipes", mock.Anything, mock.Anything)
	assert.Equal(t, PhaseIdle, gen.State().Phase)
}

func TestGenerator_Submit(t *testing.T) {
	proxy := &mocks.MockRecipeProxy{}
	proxy.On("GenerateRecipes", mock.Anything, "chicken breast, garlic").
		Return(namedRecipes("Garlic Chicken", "Chicken Stew"), nil).Once()
	proxy.On("GenerateImage", mock.Anything, "Garlic Chicken", "Garlic Chicken description").
		Return("https://img/garlic.png", nil).Once()
	proxy.On("GenerateImage", mock.Anything, "Chicken Stew", "Chicken Stew description").
		Return("https://img/stew.png", nil).Once()

	gen := NewGenerator(proxy, nil, metrics.New())

	require.True(t, gen.Submit(context.Background(), []string{"chicken breast", "garlic"}))

	state := gen.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Recipes, 2)
	assert.NotEmpty(t, state.GenerationID)

	gen.WaitEnrichment()

	recipes := gen.Recipes()
	assert.Equal(t, "https://img/garlic.png", recipes[0].ImageURL)
	assert.Equal(t, "https://img/stew.png", recipes[1].ImageURL)
	assert.Equal(t, PhaseIdle, gen.State().Phase)
	proxy.AssertExpectations(t)
}

func TestGenerator_SubmitOutlivesCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var proxyCtxErr error
	proxy := &mocks.MockRecipeProxy{}
	proxy.On("GenerateRecipes", mock.Anything, "eggs").
		Run(func(args mock.Arguments) {
			cancel()
			proxyCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(namedRecipes("Omelette"), nil).Once()
	proxy.On("GenerateImage", mock.Anything, "Omelette", "Omelette description").
		Return("https://img/omelette.png", nil).Once()

	gen := NewGenerator(proxy, nil, nil)
	require.True(t, gen.Submit(ctx, []string{"eggs"}))

	assert.NoError(t, proxyCtxErr)
	state := gen.State()
	assert.NotEqual(t, PhaseFailed, state.Phase)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Recipes, 1)

	gen.WaitEnrichment()
	proxy.AssertExpectations(t)
}

func TestGenerator_RecipeFailure(t *testing.T) {
	t.Run("should record the generic message", func(t *testing.T) {
		proxy := &fakeProxy{
			recipes: func(string) ([]model.Recipe, error) {
				return nil, &GenerationError{Err: &APIError{StatusCode: 500, Message: "boom"}}
			},
		}
		gen := NewGenerator(proxy, nil, nil)

		require.True(t, gen.Submit(context.Background(), []string{"eggs"}))

		state := gen.State()
		assert.Equal(t, PhaseFailed, state.Phase)
		assert.False(t, state.Loading)
		assert.Empty(t, state.Recipes)
		assert.Equal(t, msgRecipesFailed, state.Error)
	})

	t.Run("should default an empty message", func(t *testing.T) {
		proxy := &fakeProxy{
			recipes: func(string) ([]model.Recipe, error) { return nil, errors.New("") },
		}
		gen := NewGenerator(proxy, nil, nil)

		gen.Submit(context.Background(), []string{"eggs"})
		assert.Equal(t, "An unexpected error occurred.", gen.State().Error)
	})

	t.Run("should clear the error on the next submit", func(t *testing.T) {
		fail := true
		proxy := &fakeProxy{
			recipes: func(string) ([]model.Recipe, error) {
				if fail {
					return nil, &GenerationError{}
				}
				return namedRecipes("Omelette"), nil
			},
			image: func(string) (string, error) { return "u", nil },
		}
		gen := NewGenerator(proxy, nil, nil)

		gen.Submit(context.Background(), []string{"eggs"})
		require.NotEmpty(t, gen.State().Error)

		fail = false
		gen.Submit(context.Background(), []string{"eggs"})
		gen.WaitEnrichment()
		assert.Empty(t, gen.State().Error)
		assert.Len(t, gen.Recipes(), 1)
	})
}

func TestGenerator_ImageFailureIsIsolated(t *testing.T) {
	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) { return namedRecipes("X", "Y", "Z"), nil },
		image: func(name string) (string, error) {
			if name == "Y" {
				return "", &ImageGenerationError{RecipeName: name}
			}
			return "img-" + name, nil
		},
	}
	gen := NewGenerator(proxy, nil, metrics.New())

	gen.Submit(context.Background(), []string{"eggs"})
	gen.WaitEnrichment()

	recipes := gen.Recipes()
	assert.Equal(t, "img-X", recipes[0].ImageURL)
	assert.Empty(t, recipes[1].ImageURL)
	assert.Equal(t, "img-Z", recipes[2].ImageURL)
	assert.Empty(t, gen.State().Error)
}

func TestGenerator_StaleImageIsDropped(t *testing.T) {
	releaseX := make(chan struct{})
	xStarted := make(chan struct{})

	proxy := &fakeProxy{
		recipes: func(ingredients string) ([]model.Recipe, error) {
			if ingredients == "a" {
				return namedRecipes("X", "Y"), nil
			}
			return namedRecipes("Z"), nil
		},
		image: func(name string) (string, error) {
			if name == "X" {
				close(xStarted)
				<-releaseX
				return "img-X", nil
			}
			return "", errors.New("no image")
		},
	}
	gen := NewGenerator(proxy, nil, metrics.New())

	require.True(t, gen.Submit(context.Background(), []string{"a"}))
	<-xStarted
	require.True(t, gen.Submit(context.Background(), []string{"b"}))

	close(releaseX)
	gen.WaitEnrichment()

	recipes := gen.Recipes()
	require.Len(t, recipes, 1)
	assert.Equal(t, "Z", recipes[0].RecipeName)
	assert.Empty(t, recipes[0].ImageURL)
}

func TestGenerator_InFlightSubmitIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) {
			close(started)
			<-release
			return []model.Recipe{}, nil
		},
	}
	gen := NewGenerator(proxy, nil, nil)

	require.True(t, gen.SubmitAsync(context.Background(), []string{"eggs"}))
	<-started

	assert.True(t, gen.State().Loading)
	assert.False(t, gen.Submit(context.Background(), []string{"rice"}))

	close(release)
	gen.WaitEnrichment()

	assert.Equal(t, []string{"eggs"}, proxy.recipeRequests())
	assert.False(t, gen.State().Loading)
}

func TestGenerator_Filter(t *testing.T) {
	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) {
			return []model.Recipe{
				{RecipeName: "Tomato Soup", Description: "warm"},
				{RecipeName: "Fried Rice", Description: "quick"},
			}, nil
		},
		image: func(string) (string, error) { return "", errors.New("skip") },
	}
	gen := NewGenerator(proxy, nil, nil)

	gen.Submit(context.Background(), []string{"eggs"})
	gen.SetFilter("toma")
	require.Len(t, gen.Visible(), 1)
	assert.Equal(t, "Tomato Soup", gen.Visible()[0].RecipeName)
	assert.Len(t, gen.Recipes(), 2)

	gen.Submit(context.Background(), []string{"eggs"})
	assert.Empty(t, gen.Filter())
	assert.Len(t, gen.Visible(), 2)
	gen.WaitEnrichment()
}

func TestGenerator_Subscribe(t *testing.T) {
	proxy := &fakeProxy{
		recipes: func(string) ([]model.Recipe, error) { return namedRecipes("X"), nil },
		image:   func(string) (string, error) { return "img", nil },
	}
	gen := NewGenerator(proxy, nil, nil)

	var mu sync.Mutex
	var states []GeneratorState
	unsubscribe := gen.Subscribe(func(s GeneratorState) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})

	gen.Submit(context.Background(), []string{"eggs"})
	gen.WaitEnrichment()

	mu.Lock()
	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, PhaseSubmitting, states[0].Phase)
	assert.True(t, states[0].Loading)
	assert.Equal(t, PhaseReady, states[1].Phase)
	assert.False(t, states[1].Loading)
	last := states[len(states)-1]
	assert.Equal(t, PhaseIdle, last.Phase)
	assert.Equal(t, "img", last.Recipes[0].ImageURL)
	count := len(states)
	mu.Unlock()

	unsubscribe()
	gen.SetFilter("x")

	mu.Lock()
	assert.Len(t, states, count)
	mu.Unlock()
}

func TestMergeImage(t *testing.T) {
	tests := []struct {
		name  string
		index int
		rname string
		want  bool
	}{
		{name: "matching slot", index: 1, rname: "Y", want: true},
		{name: "name changed", index: 0, rname: "Y", want: false},
		{name: "index past end", index: 2, rname: "Y", want: false},
		{name: "negative index", index: -1, rname: "X", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := namedRecipes("X", "Y")
			got := mergeImage(list, tt.index, tt.rname, "url")
			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, "url", list[tt.index].ImageURL)
			} else {
				assert.Empty(t, list[0].ImageURL)
				assert.Empty(t, list[1].ImageURL)
			}
		})
	}
}

func TestMergeImage_DuplicateNamesKeepTheirOwnSlot(t *testing.T) {
	list := namedRecipes("Soup", "Soup")

	assert.True(t, mergeImage(list, 1, "Soup", "second"))
	assert.True(t, mergeImage(list, 0, "Soup", "first"))

	assert.Equal(t, "first", list[0].ImageURL)
	assert.Equal(t, "second", list[1].ImageURL)
}
