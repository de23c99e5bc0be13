package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

func setupOrderTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/orders/quote", h.Quote)
	r.POST("/orders", h.Checkout)
	return r
}

func postJSON(r *gin.Engine, path string, payload any, clientID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set(httpx.ClientIDHeader, clientID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler(t *testing.T) {
	f := newFixture(t)
	r := setupOrderTestRouter(NewHandler(f.svc))

	w := postJSON(r, "/orders", map[string]any{
		"order_type":  "dine-in",
		"table_label": "T1",
		"items":       []map[string]any{{"dish_id": f.tea, "qty": 2}},
	}, "browser-9")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var receipt Receipt
	if err := json.Unmarshal(w.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.Order.Total != 30 || receipt.ReservationID == "" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestCheckoutHandlerStockConflict(t *testing.T) {
	f := newFixture(t)
	r := setupOrderTestRouter(NewHandler(f.svc))

	w := postJSON(r, "/orders", map[string]any{
		"order_type": "takeout",
		"items":      []map[string]any{{"dish_id": f.tagine, "qty": 9}},
	}, "browser-9")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	var body struct {
		Lines []QuoteLine `json:"lines"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Lines) != 1 || body.Lines[0].Qty != 3 {
		t.Fatalf("expected clamped line, got %+v", body.Lines)
	}
}

func TestCheckoutHandlerValidation(t *testing.T) {
	f := newFixture(t)
	r := setupOrderTestRouter(NewHandler(f.svc))

	w := postJSON(r, "/orders", map[string]any{"order_type": "delivery", "items": []map[string]any{}}, "c")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	w = postJSON(r, "/orders", map[string]any{
		"order_type": "takeout",
		"items":      []map[string]any{{"dish_id": f.tea, "qty": 1}},
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestQuoteHandler(t *testing.T) {
	f := newFixture(t)
	r := setupOrderTestRouter(NewHandler(f.svc))

	w := postJSON(r, "/orders/quote", map[string]any{
		"items": []map[string]any{{"dish_id": f.tagine, "qty": 5}},
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var q Quote
	_ = json.Unmarshal(w.Body.Bytes(), &q)
	if !q.Adjusted || q.Lines[0].Qty != 3 {
		t.Fatalf("expected adjusted quote, got %+v", q)
	}
}

func TestQuoteHandlerRejectsMalformedDishID(t *testing.T) {
	f := newFixture(t)
	r := setupOrderTestRouter(NewHandler(f.svc))

	w := postJSON(r, "/orders/quote", map[string]any{
		"items": []map[string]any{{"dish_id": "abc", "qty": 1}},
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}
