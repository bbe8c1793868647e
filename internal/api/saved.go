package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

type SavedHandler struct {
	session *service.Session
	logger  *zap.Logger
}

func NewSavedHandler(session *service.Session, l *zap.Logger) *SavedHandler {
	return &SavedHandler{session: session, logger: logger.OrNop(l)}
}

func (h *SavedHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("/saved")
	{
		saved.GET("", h.ListSaved)
		saved.POST("", h.SaveRecipe)
		saved.DELETE("/:name", h.UnsaveRecipe)
		saved.DELETE("", h.ClearSaved)
	}
}

func (h *SavedHandler) ListSaved(c *gin.Context) {
	c.JSON(http.StatusOK, SavedResponse{Recipes: h.session.Saved.List()})
}

// SaveRecipe saves a full recipe body, or the current recipe with the given name when only
// recipeName is sent.
func (h *SavedHandler) SaveRecipe(c *gin.Context) {
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if recipe.RecipeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeName is required"})
		return
	}

	if recipe.Description == "" && len(recipe.Ingredients) == 0 && len(recipe.Instructions) == 0 {
		current, ok := h.session.Generator.Recipe(recipe.RecipeName)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		recipe = current
	}

	if err := h.session.Saved.Save(c.Request.Context(), recipe); err != nil {
		h.logger.Error("failed to save recipe", zap.String("recipe", recipe.RecipeName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, SavedResponse{Recipes: h.session.Saved.List()})
}

func (h *SavedHandler) UnsaveRecipe(c *gin.Context) {
	name := c.Param("name")
	if err := h.session.Saved.Unsave(c.Request.Context(), name); err != nil {
		h.logger.Error("failed to unsave recipe", zap.String("recipe", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave recipe"})
		return
	}

	c.JSON(http.StatusOK, SavedResponse{Recipes: h.session.Saved.List()})
}

func (h *SavedHandler) ClearSaved(c *gin.Context) {
	if err := h.session.Saved.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear saved recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear saved recipes"})
		return
	}

	c.JSON(http.StatusOK, SavedResponse{Recipes: []model.Recipe{}})
}
