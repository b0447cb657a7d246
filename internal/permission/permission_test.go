package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/astrafab/prodtrack/internal/model"
)

// policy mirrors the documented permission table. Each entry lists the
// actions a role holds on a resource; absent pairs must evaluate false.
var policy = map[model.Role]map[Resource][]Action{
	model.RoleProductManager: {
		ResourceProducts: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceProjects: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceItems:    {ActionRead},
	},
	model.RoleProjectManager: {
		ResourceProducts: {ActionRead},
		ResourceProjects: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceItems:    {ActionRead},
	},
	model.RoleEngineer: {
		ResourceProducts: {ActionRead},
		ResourceProjects: {ActionRead},
		ResourceItems:    {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	},
}

var allResources = []Resource{ResourceProducts, ResourceProjects, ResourceItems}

var allActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

func TestAllowedMatchesPolicyTable(t *testing.T) {
	for role, grants := range policy {
		for _, resource := range allResources {
			for _, action := range allActions {
				want := false
				for _, a := range grants[resource] {
					if a == action {
						want = true
					}
				}

				got := Allowed(role, resource, action)
				assert.Equalf(t, want, got,
					"Allowed(%s, %s, %s)", role, resource, action)
			}
		}
	}
}

func TestAllowedUnrecognizedRole(t *testing.T) {
	for _, role := range []model.Role{"", "ADMIN", "engineer", "PRODUCT_MANAGER "} {
		for _, resource := range allResources {
			for _, action := range allActions {
				assert.Falsef(t, Allowed(role, resource, action),
					"Allowed(%q, %s, %s)", role, resource, action)
			}
		}
	}
}

func TestAllowedIsPure(t *testing.T) {
	first := Allowed(model.RoleEngineer, ResourceItems, ActionDelete)
	second := Allowed(model.RoleEngineer, ResourceItems, ActionDelete)
	assert.True(t, first)
	assert.Equal(t, first, second)
}

func TestAllowedNoPartialMatches(t *testing.T) {
	// Update must not imply read or vice versa; check a role that holds
	// read but not update.
	assert.True(t, Allowed(model.RoleProjectManager, ResourceItems, ActionRead))
	assert.False(t, Allowed(model.RoleProjectManager, ResourceItems, ActionUpdate))
}

func TestDerivedPredicatesQueryTable(t *testing.T) {
	// The end-to-end scenario from the role design: a project manager
	// cannot edit items but can create projects.
	assert.False(t, CanEditItems(model.RoleProjectManager))
	assert.True(t, CanCreateProjects(model.RoleProjectManager))

	type predicate struct {
		name     string
		fn       func(model.Role) bool
		resource Resource
		action   Action
	}

	predicates := []predicate{
		{"CanCreateProducts", CanCreateProducts, ResourceProducts, ActionCreate},
		{"CanEditProducts", CanEditProducts, ResourceProducts, ActionUpdate},
		{"CanDeleteProducts", CanDeleteProducts, ResourceProducts, ActionDelete},
		{"CanCreateProjects", CanCreateProjects, ResourceProjects, ActionCreate},
		{"CanEditProjects", CanEditProjects, ResourceProjects, ActionUpdate},
		{"CanDeleteProjects", CanDeleteProjects, ResourceProjects, ActionDelete},
		{"CanCreateItems", CanCreateItems, ResourceItems, ActionCreate},
		{"CanEditItems", CanEditItems, ResourceItems, ActionUpdate},
		{"CanDeleteItems", CanDeleteItems, ResourceItems, ActionDelete},
	}

	roles := append([]model.Role{""}, model.Roles...)
	for _, p := range predicates {
		for _, role := range roles {
			assert.Equalf(t, Allowed(role, p.resource, p.action), p.fn(role),
				"%s(%q) disagrees with Allowed", p.name, role)
		}
	}
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role model.Role
		want string
	}{
		{model.RoleProductManager, "Product Manager"},
		{model.RoleProjectManager, "Project Manager"},
		{model.RoleEngineer, "Production Engineer"},
		{"QUALITY_LEAD", "QUALITY_LEAD"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleDisplayName(tt.role))
	}
}

func TestRoleDescription(t *testing.T) {
	for _, role := range model.Roles {
		assert.NotEmpty(t, RoleDescription(role))
	}
	assert.Empty(t, RoleDescription("QUALITY_LEAD"))
}
