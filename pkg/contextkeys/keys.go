package contextkeys

type contextKey string

const (
	ActorIDKey  contextKey = "ActorID"
	RoleCodeKey contextKey = "RoleCode"
	UsernameKey contextKey = "Username"
)
