package identity

import "time"

// Roles a user can hold.
const (
	RoleCitizen = "citizen"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User represents a citizen, manager or administrator of the platform.
type User struct {
	ID           string
	Phone        string
	Name         *string
	Email        *string
	PasswordHash []byte
	Role         string
	TeamID       *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanManage reports whether the user may log in as a manager.
func (u User) CanManage() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// DisplayName returns the name or an empty string when unset.
func (u User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// ProvisionInput carries the data an administrator supplies to create an account.
type ProvisionInput struct {
	Phone    string
	Name     string
	Email    string
	Password string
	Role     string
	TeamID   string
	IsActive *bool
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}
