package userlist

import (
	domain "user-console/internal/domain/user"
)

// Status is the load state of the list.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusLoaded    Status = "loaded"
	StatusLoadError Status = "load_error"
)

// Draft is the in-progress edit of one row.
type Draft struct {
	TargetID  int64  `json:"target_id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
}

// Patch returns the update body for the draft.
func (d Draft) Patch() domain.Patch {
	return domain.Patch{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email}
}

// DraftChange carries the draft fields to overwrite; nil fields are left alone.
type DraftChange struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

func (c DraftChange) apply(d *Draft) {
	if c.FirstName != nil {
		d.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		d.LastName = *c.LastName
	}
	if c.Email != nil {
		d.Email = *c.Email
	}
}

// Snapshot is a copy of the controller state handed to the view layer.
type Snapshot struct {
	Status      Status        `json:"status"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	Items       []domain.User `json:"items"`
	Draft       *Draft        `json:"draft,omitempty"`
	HasPrevious bool          `json:"has_previous"`
	HasNext     bool          `json:"has_next"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Editing reports whether the row with id is in edit mode.
func (s Snapshot) Editing(id int64) bool {
	return s.Draft != nil && s.Draft.TargetID == id
}
