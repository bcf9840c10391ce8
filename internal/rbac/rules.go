package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"profile:view",
		"profile:edit",
		"classroom:view",
		"classroom:join",
		"notice:view",
		"file:upload",
		"file:list",
		"test:view",
		"test:submit",
	},
	"teacher": {
		"profile:view",
		"profile:edit",
		"classroom:create",
		"classroom:view",
		"classroom:join",
		"notice:post",
		"notice:view",
		"file:upload",
		"file:list",
		"test:create",
		"test:view",
	},
	"admin": {
		"*", // everything
	},
}
