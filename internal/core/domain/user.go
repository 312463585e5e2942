// Package domain defines the core domain models for ipadmin.
package domain

import "time"

// RoleSuperAdmin may modify and delete any IP record and read the audit trail.
// Every other role value is treated as a regular user.
const RoleSuperAdmin = "super-admin"

// UserDetails is the user record embedded in IP records and audit entries.
type UserDetails struct {
	ID              ID         `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayName returns the name, falling back to the email, then "Unknown".
func (u *UserDetails) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown"
}

// CurrentUser is the response of the current-user endpoint.
type CurrentUser struct {
	User *UserDetails `json:"user"`
	Role string       `json:"role"`
}

// IsAuthenticated reports whether the backend returned a user.
func (c *CurrentUser) IsAuthenticated() bool {
	return c != nil && c.User != nil
}

// IsSuperAdmin reports whether the user holds the super-admin role.
func (c *CurrentUser) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleSuperAdmin
}

// RoleLabel returns the human label shown next to the user.
func (c *CurrentUser) RoleLabel() string {
	if c.IsSuperAdmin() {
		return "Super Admin"
	}
	return "Regular User"
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by the login and refresh endpoints.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Message     string `json:"message,omitempty"`
}
