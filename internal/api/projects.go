package api

import (
	"context"
	"fmt"

	"github.com/astrafab/prodtrack/internal/model"
)

// ProjectRequest is the payload for creating or updating a project.
// Dates travel as ISO date strings. The deadline is deliberately not
// checked against the start date here: the server owns that rule.
type ProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Deadline    string `json:"deadline" validate:"required,datetime=2006-01-02"`
	ProductID   string `json:"productId" validate:"required"`
}

// ListProjects fetches all projects with their items.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/api/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := c.get(ctx, "/api/projects/"+id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjectItems fetches the items belonging to a project.
func (c *Client) ListProjectItems(ctx context.Context, id string) ([]model.Item, error) {
	var items []model.Item
	if err := c.get(ctx, "/api/projects/"+id+"/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateProject creates a project under its product.
func (c *Client) CreateProject(ctx context.Context, req ProjectRequest) (*model.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	var project model.Project
	if err := c.post(ctx, "/api/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject replaces a project's mutable fields.
func (c *Client) UpdateProject(ctx context.Context, id string, req ProjectRequest) (*model.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	var project model.Project
	if err := c.put(ctx, "/api/projects/"+id, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/projects/"+id, nil)
}
