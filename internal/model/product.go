package model

import "time"

// Product is a manufactured product line. It owns zero or more projects;
// the server is the authoritative store, the client only holds snapshots.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedBy   UserRef   `json:"createdBy"`

	// Projects carries name references in list responses and fully
	// populated projects (with items) in detail responses.
	Projects []Project `json:"projects,omitempty"`
}

// ProductRef is the abbreviated product reference embedded in projects.
type ProductRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}
