package domain

import "strings"

// Role is the backend-assigned role of a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleDriver   Role = "DRIVER"
	RoleCustomer Role = "CUSTOMER"
)

// CustomerType distinguishes walk-in customers from accounts with terms.
type CustomerType string

const (
	CustomerOneTime CustomerType = "ONE_TIME"
	CustomerRegular CustomerType = "REGULAR"
)

// User is the profile the backend resolves for an access token. Read-only on
// the client.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Role         Role         `json:"role"`
	CustomerType CustomerType `json:"customer_type,omitempty"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsStaff reports whether the user may use the ops dashboard.
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleManager)
}
