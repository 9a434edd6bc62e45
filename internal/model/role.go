package model

// Role is one of the closed set of user roles.
type Role string

// Roles.
const (
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// Permission names an operation class a role may perform.
type Permission int

const (
	// PermMutateItems covers item update, delete, and photo upload.
	// Reporting and claiming are open to any authenticated user.
	PermMutateItems Permission = iota

	// PermManageUsers covers the user administration endpoints.
	PermManageUsers
)

// rolePermissions is the capability table. Roles absent from the table
// (including the empty role) hold no permissions.
var rolePermissions = map[Role]map[Permission]bool{
	RoleStaff: {
		PermMutateItems: true,
	},
	RoleAdmin: {
		PermMutateItems: true,
		PermManageUsers: true,
	},
	RoleSuperAdmin: {
		PermMutateItems: true,
		PermManageUsers: true,
	},
}

// Can reports whether the role holds the given permission. Unknown roles
// fail closed.
func (r Role) Can(p Permission) bool {
	return rolePermissions[r][p]
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	_, ok := rolePermissions[r]
	return ok
}
