package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"candidate": {
		"quiz:view",
		"quiz:take",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
