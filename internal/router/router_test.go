package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"darmenu/internal/auth"
	"darmenu/internal/core"
	"darmenu/internal/dashboard"
	"darmenu/internal/inventory"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/notify"
	"darmenu/internal/order"
	"darmenu/internal/realtime"
	"darmenu/internal/reservation"
	"darmenu/internal/settings"
	"darmenu/internal/tables"
)

type dashboardStub struct{}

func (dashboardStub) Counts(context.Context, time.Time) (dashboard.Counts, error) {
	return dashboard.Counts{}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.Service, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(hub)

	userRepo := auth.NewInMemoryUserRepository()
	authService := auth.NewService(userRepo, tokens)

	dishRepo := menu.NewMemoryRepository()
	menuService := menu.NewService(dishRepo, nil, notifier, "MAD")

	inventoryService := inventory.NewService(inventory.NewMemoryRepository(), notifier, 5)

	tableRepo := tables.NewMemoryRepository()
	tablesService := tables.NewService(tableRepo, notifier, "http://localhost:5173")

	pointsRepo := loyalty.NewMemoryRepository()
	loyaltyService := loyalty.NewService(pointsRepo)

	outbox := notify.NewMemoryOutbox()
	orderService := order.NewService(dishRepo, loyaltyService, tablesService,
		order.NewMemoryRepository(dishRepo, pointsRepo, outbox), notifier)

	reservationService := reservation.NewService(reservation.NewMemoryRepository(), inventoryService, outbox, notifier)

	r := New(Deps{
		Tokens:       tokens,
		CORSOrigins:  []string{"http://localhost:5173"},
		Version:      "test",
		Auth:         authService,
		Menu:         menuService,
		Inventory:    inventoryService,
		Tables:       tablesService,
		Loyalty:      loyaltyService,
		Orders:       orderService,
		Reservations: reservationService,
		Settings:     settings.NewService(settings.NewMemoryRepository(), notifier),
		Dashboard:    dashboard.NewService(dashboardStub{}, time.UTC),
		Broker:       hub,
	})
	return r, authService, tokens
}

func TestHealthCheck(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	r, authService, tokens := newTestRouter(t)
	ctx := context.Background()

	if w := get(r, "/admin/dashboard", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	customer, _ := tokens.GenerateToken("00000000-0000-0000-0000-000000000001", "c@x.ma", core.RoleCustomer)
	if w := get(r, "/admin/dashboard", customer); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	// A forged admin claim for a profile that does not exist.
	ghost, _ := tokens.GenerateToken("00000000-0000-0000-0000-000000000002", "a@x.ma", core.RoleAdmin)
	if w := get(r, "/admin/dashboard", ghost); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for unknown profile, got %d", w.Code)
	}

	if _, err := authService.EnsureAdmin(ctx, "Owner", "owner@x.ma", "secret123"); err != nil {
		t.Fatal(err)
	}
	session, err := authService.AdminLogin(ctx, "owner@x.ma", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if w := get(r, "/admin/dashboard", session.Token); w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDemotedAdminLosesAccess(t *testing.T) {
	r, authService, _ := newTestRouter(t)
	ctx := context.Background()

	admin, err := authService.EnsureAdmin(ctx, "Owner", "owner@x.ma", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	session, err := authService.AdminLogin(ctx, "owner@x.ma", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if w := get(r, "/admin/users", session.Token); w.Code != http.StatusOK {
		t.Fatalf("expected status 200 before demotion, got %d", w.Code)
	}

	if err := authService.SetUserType(ctx, admin.ID, auth.UserTypeCustomer); err != nil {
		t.Fatal(err)
	}
	if w := get(r, "/admin/users", session.Token); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 after demotion, got %d", w.Code)
	}
}

func TestRegisterThenMe(t *testing.T) {
	r, _, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"full_name": "Amina", "email": "amina@example.com", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	body, _ = json.Marshal(map[string]string{"email": "amina@example.com", "password": "secret123"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var session struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &session)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPublicMenuAndHours(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, path := range []string{"/menu", "/menu/categories", "/opening-hours?lang=fr"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, w.Code)
		}
	}
}
