package api

import (
	"context"
	"fmt"

	"github.com/astrafab/prodtrack/internal/model"
)

// ProductRequest is the payload for creating or updating a product.
// The same field rules apply to both operations.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Version     string  `json:"version" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ListProducts fetches all products.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product with its projects and their items.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "/api/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product and returns the server's snapshot of it.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}

	var product model.Product
	if err := c.post(ctx, "/api/products", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's mutable fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}

	var product model.Product
	if err := c.put(ctx, "/api/products/"+id, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/products/"+id, nil)
}
