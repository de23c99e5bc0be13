package loyalty

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance also returns the redemption cap for an optional order total.
func (h *Handler) Balance(c *gin.Context) {
	userID := c.GetString(httpx.KeyUserID)
	points, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	resp := gin.H{"points": points, "point_value": PointValue}
	if raw := c.Query("total"); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total"})
			return
		}
		max := MaxRedeemable(points, total)
		resp["max_redeemable"] = max
		resp["quick_select"] = gin.H{
			"25":  QuickSelect(max, 0.25),
			"50":  QuickSelect(max, 0.5),
			"100": QuickSelect(max, 1),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	txns, err := h.service.History(c.Request.Context(), c.GetString(httpx.KeyUserID), limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// --------------------------------------------------
// ADMIN: manual adjustments
// --------------------------------------------------
func (h *Handler) AdminAdjust(c *gin.Context) {
	userID, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Kind   string `json:"kind" binding:"required,oneof=award redeem"`
		Amount int    `json:"amount" binding:"required,gt=0"`
		Reason string `json:"reason"`
	}
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	meta := map[string]any{"by": c.GetString(httpx.KeyUserID)}
	var (
		balance int
		err     error
	)
	if req.Kind == KindAward {
		balance, err = h.service.Award(c.Request.Context(), userID, req.Amount, req.Reason, meta)
	} else {
		balance, err = h.service.Redeem(c.Request.Context(), userID, req.Amount, req.Reason, meta)
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "points": balance})
}
