package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"darmenu/internal/core"
)

var (
	ErrInvalidCredentials = core.NewError(core.ErrUnauthorized, "invalid email or password")
	ErrNotAdmin           = core.NewError(core.ErrForbidden, "account is not an administrator")
	ErrEmailTaken         = core.NewError(core.ErrConflict, "email already exists")
	ErrUserNotFound       = core.NewError(core.ErrNotFound, "user not found")
	ErrInvalidUserType    = core.NewError(core.ErrInvalid, "user type must be customer or admin")
)

const minPasswordLength = 8

type Service struct {
	repo   UserRepository
	tokens *TokenManager
}

func NewService(repo UserRepository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Session is returned on successful sign-in.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// REGISTER
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	v := core.NewValidationError()
	if fullName == "" {
		v.Add("full_name", "is required")
	}
	if email == "" {
		v.Add("email", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "must be a valid email")
	}
	if len(password) < minPasswordLength {
		v.Add("password", "must be at least 8 characters")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName: fullName,
		Email:    email,
		Password: string(hashedPassword),
		UserType: UserTypeCustomer,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("[AUTH] user registered", "user_id", user.ID)
	return user, nil
}

// LOGIN
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// AdminLogin signs in and rejects profiles that are not admins.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !session.User.IsAdmin() {
		slog.Warn("[AUTH] admin login refused", "user_id", session.User.ID)
		return nil, ErrNotAdmin
	}
	return session, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// IsAdmin reports whether userID is a current admin profile.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// --------------------------------------------------
// Admin user management
// --------------------------------------------------

func (s *Service) ListUsers(ctx context.Context, userType string) ([]UserSummary, error) {
	if userType == "all" {
		userType = ""
	}
	if userType != "" && !validUserType(userType) {
		return nil, ErrInvalidUserType
	}
	return s.repo.List(ctx, userType)
}

func (s *Service) SetUserType(ctx context.Context, userID, userType string) error {
	if !validUserType(userType) {
		return ErrInvalidUserType
	}
	if err := s.repo.SetUserType(ctx, userID, userType); err != nil {
		return err
	}
	slog.Info("[AUTH] user type changed", "user_id", userID, "user_type", userType)
	return nil
}

// EnsureAdmin creates an admin profile, or promotes the existing profile
// with that email.
func (s *Service) EnsureAdmin(ctx context.Context, fullName, email, password string) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		if !existing.IsAdmin() {
			if err := s.repo.SetUserType(ctx, existing.ID, UserTypeAdmin); err != nil {
				return nil, err
			}
			existing.UserType = UserTypeAdmin
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user, err := s.Register(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetUserType(ctx, user.ID, UserTypeAdmin); err != nil {
		return nil, err
	}
	user.UserType = UserTypeAdmin
	return user, nil
}
