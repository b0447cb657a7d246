package model

import "time"

// DeadlineState classifies a project's deadline relative to now. It is a
// display concern only; the server never rejects a deadline before the
// start date, so the client does not either.
type DeadlineState int

const (
	DeadlineOnTrack DeadlineState = iota
	DeadlineDueSoon
	DeadlineOverdue
)

// dueSoonWindow is how far ahead of the deadline a project is flagged
// as "due soon".
const dueSoonWindow = 7 * 24 * time.Hour

// Project is a production run of a product. A project belongs to exactly
// one product and owns an ordered collection of items.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	Deadline    time.Time  `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CreatedBy   UserRef    `json:"createdBy"`
	Product     ProductRef `json:"product"`
	Items       []Item     `json:"items"`
}

// DeadlineStateAt returns the deadline status of the project at the given
// instant.
func (p Project) DeadlineStateAt(now time.Time) DeadlineState {
	if now.After(p.Deadline) {
		return DeadlineOverdue
	}
	if p.Deadline.Sub(now) <= dueSoonWindow {
		return DeadlineDueSoon
	}
	return DeadlineOnTrack
}

// ProjectRef is the abbreviated project reference embedded in items.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
