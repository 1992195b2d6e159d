package models

import "github.com/uptrace/bun"

// User roles. Scorers record deliveries during play, analysts work the
// review tools, admins provision accounts.
const (
	RoleScorer  = "scorer"
	RoleAnalyst = "analyst"
	RoleAdmin   = "admin"
)

// User is a scorer or analyst account; passwords are stored bcrypt-hashed.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
	Role     string `bun:"role,notnull,default:'analyst'" json:"role"`
}

// ValidRole reports whether s is one of the recognized account roles.
func ValidRole(s string) bool {
	switch s {
	case RoleScorer, RoleAnalyst, RoleAdmin:
		return true
	}
	return false
}
