package identity

import "sort"

// Role is a staff role. Each role carries a fixed permission set.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSales      Role = "sales"
	RoleProduction Role = "production"
	RoleFinance    Role = "finance"
	RoleViewer     Role = "viewer"
)

// PermissionAll grants every permission
const PermissionAll = "*"

var readAll = []string{
	"customer:read", "collection:read", "product:read", "order:read", "production:read",
	"invoice:read", "payment:read", "task:read", "portal:read", "design:read",
	"review:read", "automation:read", "prediction:read", "campaign:read", "analytics:read",
}

var rolePermissions = map[Role][]string{
	RoleAdmin: {PermissionAll},
	RoleManager: append(append([]string{}, readAll...),
		"customer:create", "customer:update", "customer:delete",
		"collection:create", "collection:update", "collection:delete",
		"product:create", "product:update", "product:delete",
		"order:create", "order:update", "order:delete",
		"production:update",
		"invoice:create", "invoice:update", "invoice:delete",
		"payment:create",
		"task:create", "task:update", "task:delete",
		"portal:create", "portal:update",
		"design:create", "design:update", "design:delete",
		"review:create", "review:update", "review:delete",
		"automation:create", "automation:update", "automation:delete", "automation:execute",
		"prediction:create",
		"campaign:create", "campaign:update", "campaign:delete", "campaign:send",
		"export:read",
	),
	RoleSales: {
		"customer:read", "customer:create", "customer:update",
		"collection:read", "product:read",
		"order:read", "order:create", "order:update",
		"production:read", "invoice:read",
		"task:read", "task:create", "task:update",
		"portal:read", "portal:create", "portal:update",
		"design:read", "design:create", "design:update",
		"review:read", "prediction:read",
		"campaign:read", "campaign:create", "campaign:update", "campaign:send",
		"export:read",
	},
	RoleProduction: {
		"order:read", "product:read", "collection:read",
		"production:read", "production:update",
		"task:read", "task:create", "task:update",
		"review:read", "review:create", "review:update",
		"design:read",
	},
	RoleFinance: {
		"customer:read", "order:read",
		"invoice:read", "invoice:create", "invoice:update", "invoice:delete",
		"payment:read", "payment:create",
		"analytics:read", "prediction:read", "prediction:create",
		"task:read", "task:create", "task:update",
		"export:read",
	},
	RoleViewer: readAll,
}

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns a sorted copy of the role's permission codes
func (r Role) Permissions() []string {
	perms := append([]string{}, rolePermissions[r]...)
	sort.Strings(perms)
	return perms
}

// HasPermission reports whether perms grants code
func HasPermission(perms []string, code string) bool {
	for _, p := range perms {
		if p == PermissionAll || p == code {
			return true
		}
	}
	return false
}
