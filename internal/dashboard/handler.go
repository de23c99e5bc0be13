package dashboard

import (
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

// GET /admin/dashboard
func (h *Handler) Overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
