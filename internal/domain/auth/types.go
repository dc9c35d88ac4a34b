package auth

// Package auth contains domain-level types for identity, profiles, and the
// session. It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and JSON.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInspector Role = "inspector"
	RoleUser      Role = "user"
	RoleGuest     Role = "guest"
)

// Valid reports whether the role is one of the four known tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInspector, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

// Identity represents the provider-issued sign-in handle.
// The session manager holds a read reference only; the identity provider
// owns its lifetime (created on sign-in, destroyed on sign-out).
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	// Provider names the credential origin, e.g. "password" or "google.com".
	Provider string `json:"provider,omitempty"`
}

// Profile is the application's own record about a user, distinct from the
// Identity. It is mirrored in the profile store keyed by the identity UID.
// Role is derived from the email allow-lists once, at registration or
// federated-login time, and persisted; it is not re-derived on reads.
type Profile struct {
	ID          string    `json:"id"           db:"id"`
	Email       string    `json:"email"        db:"email"`
	Role        Role      `json:"role"         db:"role"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// Session is a point-in-time snapshot of the session manager's state.
// Identity and Profile are nil when absent. Loading is true until the
// first auth-state callback has resolved.
type Session struct {
	Identity  *Identity `json:"identity,omitempty"`
	Profile   *Profile  `json:"profile,omitempty"`
	Loading   bool      `json:"loading"`
	LastError string    `json:"last_error,omitempty"`
}

// Role returns the effective role for the snapshot. Guest holds exactly
// when no identity is present; otherwise the persisted profile role wins.
// An authenticated identity whose profile fetch is still pending (or
// failed) reports RoleUser, the weakest non-guest tag.
func (s Session) Role() Role {
	if s.Identity == nil {
		return RoleGuest
	}
	if s.Profile == nil {
		return RoleUser
	}
	return s.Profile.Role
}

// The four role flags are exact-match: roles are mutually exclusive, so an
// admin is not an inspector and vice versa.

func (s Session) IsAdmin() bool     { return s.Role() == RoleAdmin }
func (s Session) IsInspector() bool { return s.Role() == RoleInspector }
func (s Session) IsUser() bool      { return s.Role() == RoleUser }
func (s Session) IsGuest() bool     { return s.Identity == nil }
