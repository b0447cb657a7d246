// Package permission implements the static role-based access table that
// decides which controls each role may use. It is a UX gate only; the
// server performs the authoritative checks.
package permission

import "github.com/astrafab/prodtrack/internal/model"

// Resource is one of the three manageable entity kinds.
type Resource string

const (
	ResourceProducts Resource = "products"
	ResourceProjects Resource = "projects"
	ResourceItems    Resource = "items"
)

// Action is the unit granted or denied by the permission table.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// grant is a single (resource, action) pair held by a role.
type grant struct {
	resource Resource
	action   Action
}

// rolePermissions is the fixed policy table. It is populated once at
// package init and must never be mutated afterwards.
var rolePermissions = map[model.Role][]grant{
	model.RoleProductManager: {
		// Products: full CRUD.
		{ResourceProducts, ActionCreate},
		{ResourceProducts, ActionRead},
		{ResourceProducts, ActionUpdate},
		{ResourceProducts, ActionDelete},
		// Projects: full CRUD.
		{ResourceProjects, ActionCreate},
		{ResourceProjects, ActionRead},
		{ResourceProjects, ActionUpdate},
		{ResourceProjects, ActionDelete},
		// Items: read only.
		{ResourceItems, ActionRead},
	},
	model.RoleProjectManager: {
		// Products: read only.
		{ResourceProducts, ActionRead},
		// Projects: full CRUD.
		{ResourceProjects, ActionCreate},
		{ResourceProjects, ActionRead},
		{ResourceProjects, ActionUpdate},
		{ResourceProjects, ActionDelete},
		// Items: read only.
		{ResourceItems, ActionRead},
	},
	model.RoleEngineer: {
		// Products: read only.
		{ResourceProducts, ActionRead},
		// Projects: read only.
		{ResourceProjects, ActionRead},
		// Items: full CRUD.
		{ResourceItems, ActionCreate},
		{ResourceItems, ActionRead},
		{ResourceItems, ActionUpdate},
		{ResourceItems, ActionDelete},
	},
}

// Allowed reports whether the role holds the exact (resource, action)
// pair. Unrecognized roles hold nothing. There is no action hierarchy:
// update does not imply read.
func Allowed(role model.Role, resource Resource, action Action) bool {
	for _, g := range rolePermissions[role] {
		if g.resource == resource && g.action == action {
			return true
		}
	}
	return false
}

// Derived predicates. These only query the table so that the table
// remains the single source of policy.

func CanCreateProducts(role model.Role) bool {
	return Allowed(role, ResourceProducts, ActionCreate)
}

func CanEditProducts(role model.Role) bool {
	return Allowed(role, ResourceProducts, ActionUpdate)
}

func CanDeleteProducts(role model.Role) bool {
	return Allowed(role, ResourceProducts, ActionDelete)
}

func CanCreateProjects(role model.Role) bool {
	return Allowed(role, ResourceProjects, ActionCreate)
}

func CanEditProjects(role model.Role) bool {
	return Allowed(role, ResourceProjects, ActionUpdate)
}

func CanDeleteProjects(role model.Role) bool {
	return Allowed(role, ResourceProjects, ActionDelete)
}

func CanCreateItems(role model.Role) bool {
	return Allowed(role, ResourceItems, ActionCreate)
}

func CanEditItems(role model.Role) bool {
	return Allowed(role, ResourceItems, ActionUpdate)
}

func CanDeleteItems(role model.Role) bool {
	return Allowed(role, ResourceItems, ActionDelete)
}

// RoleDisplayName returns the human label for a role. Unrecognized
// values are returned unchanged so the UI always has something to show.
func RoleDisplayName(role model.Role) string {
	switch role {
	case model.RoleProductManager:
		return "Product Manager"
	case model.RoleProjectManager:
		return "Project Manager"
	case model.RoleEngineer:
		return "Production Engineer"
	default:
		return string(role)
	}
}

// RoleDescription returns a short description of a role's area of
// responsibility, or the empty string for unrecognized values.
func RoleDescription(role model.Role) string {
	switch role {
	case model.RoleProductManager:
		return "Responsible for defining and managing products and overseeing high-level projects"
	case model.RoleProjectManager:
		return "Manages the execution of projects and ensures production milestones are tracked"
	case model.RoleEngineer:
		return "Works directly on production tasks at the item level with real-time status updates"
	default:
		return ""
	}
}
