package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

type InventoryHandler struct {
	session *service.Session
	logger  *zap.Logger
}

func NewInventoryHandler(session *service.Session, l *zap.Logger) *InventoryHandler {
	return &InventoryHandler{session: session, logger: logger.OrNop(l)}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("", h.ListInventory)
		inventory.POST("", h.AddIngredient)
		inventory.DELETE("/:name", h.RemoveIngredient)
	}
	router.POST("/selection/:name/toggle", h.ToggleSelection)
}

func (h *InventoryHandler) ListInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventoryResponse())
}

func (h *InventoryHandler) AddIngredient(c *gin.Context) {
	var req AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if h.session.Inventory.AddIngredient(req.Name) {
		status = http.StatusCreated
		h.logger.Debug("ingredient added", zap.String("ingredient", service.NormalizeIngredient(req.Name)))
		h.session.Notify()
	}
	c.JSON(status, h.inventoryResponse())
}

func (h *InventoryHandler) RemoveIngredient(c *gin.Context) {
	if h.session.Inventory.RemoveIngredient(c.Param("name")) {
		h.session.Notify()
	}
	c.JSON(http.StatusOK, h.inventoryResponse())
}

func (h *InventoryHandler) ToggleSelection(c *gin.Context) {
	name := c.Param("name")
	selected := h.session.Inventory.ToggleSelection(name)
	h.session.Notify()

	c.JSON(http.StatusOK, ToggleResponse{
		Name:       name,
		IsSelected: selected,
		Selected:   h.session.Inventory.Selected(),
	})
}

func (h *InventoryHandler) inventoryResponse() InventoryResponse {
	return InventoryResponse{
		Inventory: h.session.Inventory.Items(),
		Selected:  h.session.Inventory.Selected(),
	}
}
