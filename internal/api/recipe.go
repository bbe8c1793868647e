package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

type RecipeHandler struct {
	session            *service.Session
	logger             *zap.Logger
	generateMiddleware []gin.HandlerFunc
}

func NewRecipeHandler(session *service.Session, l *zap.Logger, generateMiddleware ...gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{
		session:            session,
		logger:             logger.OrNop(l),
		generateMiddleware: generateMiddleware,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.PUT("/filter", h.SetFilter)
		recipes.POST("/generate", append(h.generateMiddleware, h.GenerateRecipes)...)
	}
}

// GenerateRecipes submits the current selection. With ?wait=true the response is
// sent once the recipe list has settled; image enrichment continues afterwards.
func (h *RecipeHandler) GenerateRecipes(c *gin.Context) {
	var accepted bool
	if c.Query("wait") == "true" {
		accepted = h.session.Submit(c.Request.Context())
	} else {
		accepted = h.session.SubmitAsync(c.Request.Context())
	}

	snap := h.session.Snapshot()
	if !accepted {
		msg := "a recipe generation is already in progress"
		if len(snap.Selected) == 0 {
			msg = "no ingredients selected"
		}
		c.JSON(http.StatusConflict, ConflictResponse{Error: msg, State: snap})
		return
	}

	c.JSON(http.StatusAccepted, snap)
}

// ListRecipes returns the visible recipes. ?q= filters this response only; the
// session filter is changed through PUT /recipes/filter.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	resp := h.recipesResponse()
	if q, ok := c.GetQuery("q"); ok {
		resp.Recipes = h.session.Cards(q)
		resp.Filter = q
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) SetFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.session.Generator.SetFilter(req.Query)
	c.JSON(http.StatusOK, h.recipesResponse())
}

func (h *RecipeHandler) recipesResponse() RecipesResponse {
	snap := h.session.Snapshot()
	return RecipesResponse{
		Recipes: snap.Recipes,
		Filter:  snap.Filter,
		Loading: snap.Loading,
		Error:   snap.Error,
	}
}
