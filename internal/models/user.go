package models

import "github.com/jinzhu/gorm"

// User represents a staff account. Accounts start with the default role at
// sign-up; roles are reassigned only by managers and admins, never on the
// actor's own account.
type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"unique_index"`
	Name         string `json:"name"`
	Photo        string `json:"photo"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

// Role represents a staff role
type Role string

const (
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
)

// DefaultRole is assigned at sign-up.
const DefaultRole = RoleWaiter

// ValidRole reports whether r is a known staff role.
func ValidRole(r Role) bool {
	switch r {
	case RoleManager, RoleAdmin, RoleCashier, RoleWaiter:
		return true
	}
	return false
}
