package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/astrafab/prodtrack/internal/model"
)

// ItemFilter narrows the item list by status and/or owning project.
// Nil fields mean "all".
type ItemFilter struct {
	Status    *model.Status
	ProjectID *string
}

// ItemRequest is the payload for creating an item.
type ItemRequest struct {
	SerialNumber string `json:"serialNumber" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=pending in_progress completed blocked"`
	ProjectID    string `json:"projectId" validate:"required"`
}

// StatusUpdate is the acknowledgement of an item status change.
type StatusUpdate struct {
	ID        string       `json:"id"`
	Status    model.Status `json:"status"`
	UpdatedAt string       `json:"updatedAt"`
}

// ListItems fetches items matching the filter. Deployments that predate
// the dedicated items endpoint return 404 there; in that case the list
// is assembled from the projects response instead.
func (c *Client) ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	path := "/api/items"
	params := url.Values{}
	if filter.Status != nil {
		params.Set("status", string(*filter.Status))
	}
	if filter.ProjectID != nil {
		params.Set("projectId", *filter.ProjectID)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var items []model.Item
	err := c.get(ctx, path, &items)
	if err == nil {
		return items, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	c.log.Debug().Msg("items endpoint unavailable, deriving list from projects")
	return c.itemsFromProjects(ctx, filter)
}

// itemsFromProjects flattens the project list into an item list and
// applies the filter client-side.
func (c *Client) itemsFromProjects(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	var items []model.Item
	for _, project := range projects {
		for _, item := range project.Items {
			item.ProjectID = project.ID
			item.ProjectName = project.Name
			item.Project = model.ProjectRef{ID: project.ID, Name: project.Name}

			if filter.Status != nil && item.Status != *filter.Status {
				continue
			}
			if filter.ProjectID != nil && item.ProjectID != *filter.ProjectID {
				continue
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// GetItem fetches a single item with its project and product context.
func (c *Client) GetItem(ctx context.Context, id string) (*model.ItemDetail, error) {
	var item model.ItemDetail
	if err := c.get(ctx, "/api/items/"+id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem registers a new item under its project.
func (c *Client) CreateItem(ctx context.Context, req ItemRequest) (*model.Item, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}

	var item model.Item
	if err := c.post(ctx, "/api/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemStatus moves an item to a new production status.
func (c *Client) UpdateItemStatus(ctx context.Context, id string, status model.Status) (*StatusUpdate, error) {
	body := struct {
		Status model.Status `json:"status"`
	}{Status: status}

	var upd StatusUpdate
	if err := c.patch(ctx, "/api/items/"+id+"/status", body, &upd); err != nil {
		return nil, err
	}
	return &upd, nil
}

// DeleteItem deletes an item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/items/"+id, nil)
}
