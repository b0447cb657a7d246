package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

func dashboardFixture(t *testing.T) *Client {
	t.Helper()

	projects := []model.Project{
		{
			ID:        "proj-1",
			Name:      "Wing Assembly",
			UpdatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
			Items: []model.Item{
				{ID: "i1", SerialNumber: "SN-001", Status: model.StatusCompleted},
				{ID: "i2", SerialNumber: "SN-002", Status: model.StatusInProgress},
				{ID: "i3", SerialNumber: "SN-003", Status: model.StatusPending},
			},
		},
		{
			ID:        "proj-2",
			Name:      "Avionics",
			UpdatedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
			Items: []model.Item{
				{ID: "i4", SerialNumber: "SN-004", Status: model.StatusCompleted},
			},
		},
	}
	products := []model.Product{
		{ID: "prod-1", Name: "Talon", Version: "2.1", UpdatedAt: time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)},
	}

	return testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/projects":
			json.NewEncoder(w).Encode(projects)
		case "/api/products":
			json.NewEncoder(w).Encode(products)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGetStats(t *testing.T) {
	c := dashboardFixture(t)

	stats, err := c.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 1, stats.ActiveItems)
	assert.Equal(t, 2, stats.CompletedItems)
	assert.Equal(t, 50, stats.ProductionRate)
}

func TestGetStatsEmpty(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Project{})
	}))

	stats, err := c.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProjects)
	assert.Zero(t, stats.ProductionRate)
}

func TestGetChartData(t *testing.T) {
	c := dashboardFixture(t)

	data, err := c.GetChartData(context.Background())
	require.NoError(t, err)

	// Status distribution covers every status in workflow order,
	// including zero buckets.
	require.Len(t, data.StatusDistribution, 4)
	assert.Equal(t, ChartPoint{Name: "pending", Value: 1}, data.StatusDistribution[0])
	assert.Equal(t, ChartPoint{Name: "in_progress", Value: 1}, data.StatusDistribution[1])
	assert.Equal(t, ChartPoint{Name: "completed", Value: 2}, data.StatusDistribution[2])
	assert.Equal(t, ChartPoint{Name: "blocked", Value: 0}, data.StatusDistribution[3])

	require.Len(t, data.ItemsPerProject, 2)
	assert.Equal(t, ChartPoint{Name: "Wing Assembly", Value: 3}, data.ItemsPerProject[0])
}

func TestGetRecentActivity(t *testing.T) {
	c := dashboardFixture(t)

	activities, err := c.GetRecentActivity(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, activities)

	// Most recent first.
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].Timestamp.After(activities[i-1].Timestamp),
			"activities out of order at %d", i)
	}

	// The newest event is the product update.
	assert.Equal(t, model.EntityProduct, activities[0].Type)
	assert.Contains(t, activities[0].Description, "Talon")
}
