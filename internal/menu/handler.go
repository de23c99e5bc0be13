package menu

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

type Handler struct {
	service *Service
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// --------------------------------------------------
// Public menu
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	dishes, err := h.service.PublicMenu(c.Request.Context(), c.Query("category"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// --------------------------------------------------
// Admin: dishes
// --------------------------------------------------
func (h *AdminHandler) List(c *gin.Context) {
	dishes, err := h.service.List(c.Request.Context(), c.Query("filter"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	dish, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *AdminHandler) Create(c *gin.Context) {
	var in DishInput
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.Error(c, err)
		return
	}

	dish, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dish)
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var in DishInput
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.Error(c, err)
		return
	}

	dish, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httpx.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type toggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (h *AdminHandler) SetAvailability(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	var req toggleRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	dish, err := h.service.SetAvailability(c.Request.Context(), id, *req.Value)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *AdminHandler) SetHidden(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	var req toggleRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	dish, err := h.service.SetHidden(c.Request.Context(), id, *req.Value)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// --------------------------------------------------
// Admin: image upload (multipart field "image")
// --------------------------------------------------
func (h *AdminHandler) UploadImage(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	defer file.Close()

	dish, err := h.service.UploadImage(c.Request.Context(), id, file, header.Filename)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}
