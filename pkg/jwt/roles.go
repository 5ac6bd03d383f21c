package jwt

// Role identifies a class of authenticated user
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Permission identifies a single allowed operation
type Permission string

const (
	PermReadKnowledge   Permission = "knowledge:read"
	PermWriteKnowledge  Permission = "knowledge:write"
	PermReadSessions    Permission = "sessions:read"
	PermManageTickets   Permission = "tickets:manage"
	PermManageUsers     Permission = "users:manage"
)

// rolePermissions maps each role to the permissions it grants.
// Admin is a strict superset of agent.
var rolePermissions = map[Role][]Permission{
	RoleAgent: {
		PermReadKnowledge,
		PermReadSessions,
		PermManageTickets,
	},
	RoleAdmin: {
		PermReadKnowledge,
		PermWriteKnowledge,
		PermReadSessions,
		PermManageTickets,
		PermManageUsers,
	},
}

// HasRole reports whether the claims carry the given role.
// Admin satisfies any role check.
func (c *JWTClaims) HasRole(role Role) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return c.Role == role
}

// HasPermission reports whether the claims' role grants the given permission
func (c *JWTClaims) HasPermission(permission Permission) bool {
	for _, p := range rolePermissions[c.Role] {
		if p == permission {
			return true
		}
	}
	return false
}
