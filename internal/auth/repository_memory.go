package auth

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*User
	points map[string]int
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[string]*User),
		points: make(map[string]int),
	}
}

func (r *InMemoryUserRepository) Save(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) List(ctx context.Context, userType string) ([]UserSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []UserSummary{}
	for _, u := range r.users {
		if userType != "" && u.UserType != userType {
			continue
		}
		out = append(out, UserSummary{User: *u, LoyaltyPoints: r.points[u.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryUserRepository) SetUserType(ctx context.Context, id, userType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			u.UserType = userType
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrUserNotFound
}

// SetPoints seeds a loyalty balance shown in List.
func (r *InMemoryUserRepository) SetPoints(userID string, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[userID] = points
}
