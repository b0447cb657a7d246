package cache

// Mutation names every write operation the client can perform. The
// invalidation fan-out lives in one table here rather than scattered
// across the views, so the dependency sets cannot drift silently.
type Mutation string

const (
	MutationProductCreate    Mutation = "product.create"
	MutationProductUpdate    Mutation = "product.update"
	MutationProductDelete    Mutation = "product.delete"
	MutationProjectCreate    Mutation = "project.create"
	MutationProjectUpdate    Mutation = "project.update"
	MutationProjectDelete    Mutation = "project.delete"
	MutationItemCreate       Mutation = "item.create"
	MutationItemStatusChange Mutation = "item.status_change"
	MutationItemDelete       Mutation = "item.delete"
)

// Mutations lists every mutation, for exhaustiveness checks.
var Mutations = []Mutation{
	MutationProductCreate,
	MutationProductUpdate,
	MutationProductDelete,
	MutationProjectCreate,
	MutationProjectUpdate,
	MutationProjectDelete,
	MutationItemCreate,
	MutationItemStatusChange,
	MutationItemDelete,
}

// dashboardKeys are the aggregate views recomputed from project data.
var dashboardKeys = []Key{KeyStats, KeyCharts, KeyRecentActivity}

// Invalidations maps each mutation to the static query keys whose data
// it can affect. Entity-scoped keys are added by KeysFor.
var Invalidations = map[Mutation][]Key{
	MutationProductCreate: {KeyProducts, KeyRecentActivity},
	MutationProductUpdate: {KeyProducts, KeyRecentActivity},
	MutationProductDelete: {KeyProducts, KeyProjects, KeyStats, KeyCharts, KeyRecentActivity},

	MutationProjectCreate: {KeyProjects, KeyStats, KeyCharts, KeyRecentActivity},
	MutationProjectUpdate: {KeyProjects, KeyStats, KeyCharts, KeyRecentActivity},
	MutationProjectDelete: {KeyProjects, KeyItems, KeyStats, KeyCharts, KeyRecentActivity},

	MutationItemCreate:       {KeyItems, KeyStats, KeyCharts, KeyRecentActivity},
	MutationItemStatusChange: {KeyItems, KeyStats, KeyCharts, KeyRecentActivity},
	MutationItemDelete:       {KeyItems, KeyStats, KeyCharts, KeyRecentActivity},
}

// Target identifies the entity a mutation touched, for entity-scoped
// invalidation. Zero fields are skipped.
type Target struct {
	ProductID string
	ProjectID string
	ItemID    string
}

// KeysFor returns the full invalidation set for a mutation against the
// given target: the static table entry plus detail keys for the touched
// entities.
func KeysFor(m Mutation, target Target) []Key {
	keys := append([]Key(nil), Invalidations[m]...)

	if target.ProductID != "" {
		keys = append(keys, ProductKey(target.ProductID))
	}
	if target.ProjectID != "" {
		keys = append(keys, ProjectKey(target.ProjectID), ProjectItemsKey(target.ProjectID))
	}
	if target.ItemID != "" {
		keys = append(keys, ItemKey(target.ItemID))
	}
	return keys
}

// ApplyMutation invalidates every key affected by the mutation.
func (c *Cache) ApplyMutation(m Mutation, target Target) {
	c.Invalidate(KeysFor(m, target)...)
}
