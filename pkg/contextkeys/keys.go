package contextkeys

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	UserRoleKey    contextKey = "userRole"
	PermissionsKey contextKey = "permissions"
)
