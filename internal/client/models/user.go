// Package models defines the client-side data records: the session user,
// documents as returned by the backend, and documents kept in the local archive.
package models

// User is the authenticated user as returned by the login endpoint and kept
// in the persisted session.
type User struct {
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsActive       bool   `json:"isActive"`
	Token          string `json:"token,omitempty"`

	// ID is set by some backend responses instead of (or as well as) UserID.
	ID int64 `json:"id,omitempty"`
}

// Normalize fills UserID from ID when the backend only sent the latter.
func (u *User) Normalize() {
	if u.UserID == 0 && u.ID != 0 {
		u.UserID = u.ID
	}
}

// DisplayName prefers the full name, then the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Student"
}

// RoleStudent is the role assigned to self-registered accounts.
const RoleStudent = "STUDENT"

// Registration is the body of the register endpoint.
type Registration struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	IsActive       bool   `json:"isActive"`
	ProfilePicture string `json:"profilePicture"`
}

// UserUpdate is a partial user update; nil fields are left out of the request.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Apply copies the non-nil, non-secret fields of upd onto u.
func (u User) Apply(upd UserUpdate) User {
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	return u
}
