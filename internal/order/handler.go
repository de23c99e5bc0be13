package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	q, err := h.service.Quote(c.Request.Context(), httpx.CurrentIdentity(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	receipt, err := h.service.Checkout(c.Request.Context(), httpx.CurrentIdentity(c), req)
	var stockErr *StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "lines": stockErr.Lines})
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}
