package api

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/astrafab/prodtrack/internal/model"
)

// Stats are the dashboard headline numbers, aggregated client-side from
// the projects list because the service exposes no dedicated endpoint.
type Stats struct {
	TotalProjects  int
	ActiveItems    int
	CompletedItems int

	// ProductionRate is completed items as a whole percentage of all
	// items, 0 when there are no items.
	ProductionRate int
}

// ChartPoint is a single labeled value in a dashboard chart.
type ChartPoint struct {
	Name  string
	Value int
}

// ChartData feeds the dashboard charts.
type ChartData struct {
	StatusDistribution []ChartPoint
	ItemsPerProject    []ChartPoint
}

// Activity is one row of the recent-activity feed.
type Activity struct {
	ID          string
	Type        model.EntityType
	Description string
	Status      string
	Timestamp   time.Time
	EntityID    string
}

// recentActivityLimit caps the recent-activity feed.
const recentActivityLimit = 15

// GetStats aggregates the headline production numbers.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProjects: len(projects)}
	total := 0
	for _, project := range projects {
		total += len(project.Items)
		for _, item := range project.Items {
			switch item.Status {
			case model.StatusCompleted:
				stats.CompletedItems++
			case model.StatusInProgress:
				stats.ActiveItems++
			}
		}
	}

	if total > 0 {
		stats.ProductionRate = int(float64(stats.CompletedItems)/float64(total)*100 + 0.5)
	}
	return stats, nil
}

// GetChartData builds the status-distribution and items-per-project
// series from the projects list.
func (c *Client) GetChartData(ctx context.Context) (*ChartData, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	distribution := map[model.Status]int{}
	data := &ChartData{}
	for _, project := range projects {
		data.ItemsPerProject = append(data.ItemsPerProject, ChartPoint{
			Name:  project.Name,
			Value: len(project.Items),
		})
		for _, item := range project.Items {
			distribution[item.Status]++
		}
	}

	for _, status := range model.Statuses {
		data.StatusDistribution = append(data.StatusDistribution, ChartPoint{
			Name:  string(status),
			Value: distribution[status],
		})
	}
	return data, nil
}

// GetRecentActivity derives an activity feed from project, item, and
// product update timestamps, most recent first.
func (c *Client) GetRecentActivity(ctx context.Context) ([]Activity, error) {
	var (
		projects []model.Project
		products []model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = c.ListProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = c.ListProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var activities []Activity
	for _, project := range projects {
		activities = append(activities, Activity{
			ID:          "project-" + project.ID,
			Type:        model.EntityProject,
			Description: fmt.Sprintf("Project %q was updated", project.Name),
			Status:      "active",
			Timestamp:   project.UpdatedAt,
			EntityID:    project.ID,
		})

		for _, item := range project.Items {
			ts := item.UpdatedAt
			if ts.IsZero() {
				ts = project.UpdatedAt
			}
			activities = append(activities, Activity{
				ID:          "item-" + item.ID,
				Type:        model.EntityItem,
				Description: fmt.Sprintf("Item %s status changed to %s", item.SerialNumber, item.Status.Label()),
				Status:      string(item.Status),
				Timestamp:   ts,
				EntityID:    item.ID,
			})
		}
	}

	for _, product := range products {
		activities = append(activities, Activity{
			ID:          "product-" + product.ID,
			Type:        model.EntityProduct,
			Description: fmt.Sprintf("Product %q v%s was updated", product.Name, product.Version),
			Status:      "active",
			Timestamp:   product.UpdatedAt,
			EntityID:    product.ID,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}
