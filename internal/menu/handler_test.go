package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupMenuTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	public := NewHandler(svc)
	admin := NewAdminHandler(svc)

	r.GET("/menu", public.List)
	r.GET("/menu/categories", public.Categories)
	r.POST("/admin/dishes", admin.Create)
	r.PATCH("/admin/dishes/:id/availability", admin.SetAvailability)
	r.POST("/admin/dishes/:id/image", admin.UploadImage)
	r.DELETE("/admin/dishes/:id", admin.Delete)
	return r
}

func TestCreateDishHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	r := setupMenuTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"name": "Harira", "price": 30, "category": "Soups"})
	req := httptest.NewRequest(http.MethodPost, "/admin/dishes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	body, _ = json.Marshal(map[string]any{"name": "", "price": -1})
	req = httptest.NewRequest(http.MethodPost, "/admin/dishes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestAvailabilityToggleHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	r := setupMenuTestRouter(svc)
	d, _ := svc.Create(context.Background(), DishInput{Name: "Tea", Price: 15})

	req := httptest.NewRequest(http.MethodPatch, "/admin/dishes/"+d.ID+"/availability", bytes.NewBufferString(`{"value":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/admin/dishes/"+d.ID+"/availability", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing value: expected status 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))
	var resp struct {
		Dishes []Dish `json:"dishes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Dishes) != 1 || !resp.Dishes[0].IsAvailable {
		t.Fatalf("unexpected menu: %+v", resp.Dishes)
	}
}

func TestUploadImageHandler(t *testing.T) {
	svc, _, _, st := newTestService()
	r := setupMenuTestRouter(svc)
	d, _ := svc.Create(context.Background(), DishInput{Name: "Tea", Price: 15})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "tea.jpg")
	fw.Write([]byte("jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/dishes/"+d.ID+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if st.body != "jpeg-bytes" || st.contentType != "image/jpeg" {
		t.Fatalf("unexpected upload: %+v", st)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/dishes/"+d.ID+"/image", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: expected 400, got %d", w.Code)
	}
}

func TestDeleteUnknownDish(t *testing.T) {
	svc, _, _, _ := newTestService()
	r := setupMenuTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/dishes/3f6e1c1e-0000-4000-8000-000000000000", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/dishes/nope", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}
