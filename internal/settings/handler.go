package settings

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// OpeningHours serves ?lang=, falling back to Accept-Language.
func (h *Handler) OpeningHours(c *gin.Context) {
	lang := c.Query("lang")
	if lang == "" {
		lang = c.GetHeader("Accept-Language")
		if i := strings.IndexAny(lang, ",;"); i >= 0 {
			lang = lang[:i]
		}
	}

	lines, err := h.service.OpeningHours(c.Request.Context(), lang)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": BaseLanguage(lang), "lines": lines})
}

func (h *Handler) AdminOpeningHours(c *gin.Context) {
	hours, err := h.service.OpeningHoursByLanguage(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opening_hours": hours})
}

func (h *Handler) SaveOpeningHours(c *gin.Context) {
	var req struct {
		Hours map[string]string `json:"opening_hours"`
	}
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	saved, err := h.service.SaveOpeningHours(c.Request.Context(), req.Hours)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opening_hours": saved})
}
