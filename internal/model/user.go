package model

import "time"

// Role classifies a user for access-control purposes. On the wire it is a
// free string; business logic must only trust the three recognized values
// and treat everything else as "no permissions".
type Role string

const (
	RoleProductManager Role = "PRODUCT_MANAGER"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleEngineer       Role = "ENGINEER"
)

// Roles lists the recognized roles in registration order.
var Roles = []Role{RoleProductManager, RoleProjectManager, RoleEngineer}

// Known reports whether the role is one of the recognized values.
// Unknown roles (including the empty string) never grant access.
func (r Role) Known() bool {
	switch r {
	case RoleProductManager, RoleProjectManager, RoleEngineer:
		return true
	}
	return false
}

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserRef is the abbreviated creator reference embedded in other entities.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisteredUser is the profile echoed back by the register endpoint.
type RegisteredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
