package inventory

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"darmenu/internal/core"
	"darmenu/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) Adjust(c *gin.Context) {
	var req struct {
		Items []core.StockAdjustment `json:"items"`
	}
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	levels, err := h.service.Adjust(c.Request.Context(), req.Items)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": levels})
}

func (h *Handler) SetStock(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Stock *float64 `json:"stock" binding:"required"`
	}
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	lvl, err := h.service.SetStock(c.Request.Context(), id, int(math.Floor(*req.Stock)))
	if errors.Is(err, ErrNoChange) {
		c.JSON(http.StatusOK, gin.H{"changed": false, "dish_id": id})
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": true, "item": lvl})
}
