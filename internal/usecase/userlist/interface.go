package userlist

import (
	"context"

	domain "user-console/internal/domain/user"
)

// API defines the remote operations the controller orchestrates.
type API interface {
	ListUsers(ctx context.Context, page, pageSize int) (*domain.PageResult, error)
	UpdateUser(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, u domain.User) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, u domain.User) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, u domain.User) bool {
	return f(ctx, u)
}

// Confirmed is a Confirmer for callers that collected the confirmation up front.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, domain.User) bool { return true })
