package auth

import "maitred/internal/models"

// Permission names one guarded action.
type Permission string

const (
	PermMenuEdit  Permission = "menu:edit"
	PermStockEdit Permission = "stock:edit"
	PermTables    Permission = "tables:manage"
	PermPOS       Permission = "pos:checkout"
	PermKitchen   Permission = "kitchen:update"
	PermBilling   Permission = "billing:settle"
	PermStaff     Permission = "staff:roles"
	PermAdvice    Permission = "admin:advice"
)

// permissions is the single authorization table. Handlers consult it
// through Allowed instead of keeping their own role lists.
var permissions = map[Permission][]models.Role{
	PermMenuEdit:  {models.RoleManager, models.RoleAdmin},
	PermStockEdit: {models.RoleManager, models.RoleAdmin, models.RoleCashier},
	PermTables:    {models.RoleManager, models.RoleAdmin, models.RoleWaiter},
	PermPOS:       {models.RoleManager, models.RoleAdmin, models.RoleCashier},
	PermKitchen:   {models.RoleManager, models.RoleAdmin, models.RoleCashier, models.RoleWaiter},
	PermBilling:   {models.RoleManager, models.RoleAdmin, models.RoleCashier},
	PermStaff:     {models.RoleManager, models.RoleAdmin},
	PermAdvice:    {models.RoleManager, models.RoleAdmin},
}

// Allowed reports whether a role may perform the guarded action.
func Allowed(role models.Role, p Permission) bool {
	for _, r := range permissions[p] {
		if r == role {
			return true
		}
	}
	return false
}
