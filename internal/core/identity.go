package core

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity is who is calling: a signed-in user, an anonymous browser
// identified by its client id, or both.
type Identity struct {
	UserID   string
	Email    string
	Role     string
	ClientID string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) Anonymous() bool {
	return i.UserID == "" && i.ClientID == ""
}

// Owns reports whether a record created by userID/clientID belongs to i.
func (i Identity) Owns(userID, clientID string) bool {
	if i.UserID != "" && userID == i.UserID {
		return true
	}
	return i.ClientID != "" && clientID == i.ClientID
}
