package entity

// Role is the single capability dimension of an account.
// Persisted as the is_admin flag; kept as a type so a future
// role can be added without touching callers.
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
)

// RoleFromFlag maps the persisted is_admin column to a Role.
func RoleFromFlag(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleStandard
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "standard"
}
