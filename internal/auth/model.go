package auth

import (
	"time"

	"github.com/ilumina/ilumina/internal/identity"
)

// AuthToken is a one-time login code bound to a phone and the role it unlocks.
type AuthToken struct {
	ID        string
	Phone     string
	Code      string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Redeemable reports whether the code may still be exchanged at now.
func (t AuthToken) Redeemable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// LoginRequest asks for a code to be sent to Phone.
type LoginRequest struct {
	Phone string
	Role  string
}

// LoginResult is returned once a code was delivered. The code itself is never
// part of it.
type LoginResult struct {
	ExpiresIn int64
}

// ConfirmRequest exchanges a code for a session.
type ConfirmRequest struct {
	Phone string
	Code  string
	Name  string
}

// Session is the outcome of a successful confirmation.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        identity.User
}

func loginRole(role string) (string, bool) {
	switch role {
	case "":
		return identity.RoleCitizen, true
	case identity.RoleCitizen, identity.RoleManager:
		return role, true
	default:
		return "", false
	}
}
