package rbac

// Default policy for the admin area. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"results:view-own",
		"results:report",
	},
	"teacher": {
		"results:view-all",
		"results:view-own",
		"results:report",
		"users:bulk_upsert",
		"users:list",
		"contents:manage",
	},
	"admin": {
		"*", // everything
	},
}
