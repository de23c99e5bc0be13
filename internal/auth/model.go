package auth

import "time"

const (
	UserTypeCustomer = "customer"
	UserTypeAdmin    = "admin"
)

// User is a profile row.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Password  string    `json:"-"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// UserSummary is the admin listing row.
type UserSummary struct {
	User
	LoyaltyPoints int `json:"loyalty_points"`
}

func validUserType(t string) bool {
	return t == UserTypeCustomer || t == UserTypeAdmin
}
