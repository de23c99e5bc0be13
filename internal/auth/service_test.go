package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"darmenu/internal/core"
)

func newTestService(t *testing.T) (*Service, *InMemoryUserRepository) {
	t.Helper()
	tokens, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	repo := NewInMemoryUserRepository()
	return NewService(repo, tokens), repo
}

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	service, repo := newTestService(t)
	password := "Password@123"

	_, err := service.Register(context.Background(), "Test User", "Test@Example.com ", password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := repo.users["test@example.com"]
	if user == nil {
		t.Fatalf("user not found under normalized email")
	}
	if user.Password == password {
		t.Fatalf("password was stored in plain text")
	}
	if user.UserType != UserTypeCustomer {
		t.Fatalf("expected customer, got %s", user.UserType)
	}
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Register(context.Background(), "", "not-an-email", "short")
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"full_name", "email", "password"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing field error for %s", field)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "A", "a@example.com", "Password@123"); err != nil {
		t.Fatal(err)
	}
	_, err := service.Register(ctx, "A", "A@example.com", "Password@123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "A", "a@example.com", "Password@123"); err != nil {
		t.Fatal(err)
	}

	session, err := service.Login(ctx, "a@example.com", "Password@123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}

	_, role := mustValidate(t, service, session.Token)
	if role != UserTypeCustomer {
		t.Fatalf("expected customer role claim, got %s", role)
	}

	if _, err := service.Login(ctx, "a@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody@example.com", "Password@123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "Cust", "c@example.com", "Password@123"); err != nil {
		t.Fatal(err)
	}
	if _, err := service.AdminLogin(ctx, "c@example.com", "Password@123"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	admin, err := service.EnsureAdmin(ctx, "Boss", "boss@example.com", "Password@123")
	if err != nil {
		t.Fatal(err)
	}
	session, err := service.AdminLogin(ctx, "boss@example.com", "Password@123")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if session.User.ID != admin.ID {
		t.Fatalf("unexpected user %s", session.User.ID)
	}
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "Cust", "c@example.com", "Password@123")
	if err != nil {
		t.Fatal(err)
	}

	promoted, err := service.EnsureAdmin(ctx, "", "c@example.com", "ignored")
	if err != nil {
		t.Fatal(err)
	}
	if promoted.ID != user.ID || !promoted.IsAdmin() {
		t.Fatalf("expected %s promoted to admin, got %+v", user.ID, promoted)
	}

	ok, err := service.IsAdmin(ctx, user.ID)
	if err != nil || !ok {
		t.Fatalf("IsAdmin = %v, %v", ok, err)
	}
}

func TestListAndSetUserType(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	u, _ := service.Register(ctx, "A", "a@example.com", "Password@123")
	_, _ = service.EnsureAdmin(ctx, "B", "b@example.com", "Password@123")
	repo.SetPoints(u.ID, 42)

	admins, err := service.ListUsers(ctx, UserTypeAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || admins[0].Email != "b@example.com" {
		t.Fatalf("unexpected admins: %+v", admins)
	}

	all, _ := service.ListUsers(ctx, "all")
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
	for _, s := range all {
		if s.ID == u.ID && s.LoyaltyPoints != 42 {
			t.Fatalf("expected 42 points, got %d", s.LoyaltyPoints)
		}
	}

	if _, err := service.ListUsers(ctx, "owner"); !errors.Is(err, ErrInvalidUserType) {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
	if err := service.SetUserType(ctx, u.ID, "superuser"); !errors.Is(err, ErrInvalidUserType) {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
	if err := service.SetUserType(ctx, u.ID, UserTypeAdmin); err != nil {
		t.Fatal(err)
	}
	if err := service.SetUserType(ctx, "missing", UserTypeAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func mustValidate(t *testing.T, s *Service, token string) (string, string) {
	t.Helper()
	id, _, role, err := s.tokens.ValidateToken(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	return id, role
}
