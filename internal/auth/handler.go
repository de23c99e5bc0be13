package auth

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

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------------------------------------------------
// Public
// --------------------------------------------------
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	session, err := h.service.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// --------------------------------------------------
// Signed-in user
// --------------------------------------------------
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString(httpx.KeyUserID))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// --------------------------------------------------
// ADMIN: users
// --------------------------------------------------
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), c.Query("type"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) UpdateUserType(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserType string `json:"user_type" binding:"required,oneof=customer admin"`
	}
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	if err := h.service.SetUserType(c.Request.Context(), id, req.UserType); err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "user_type": req.UserType})
}
