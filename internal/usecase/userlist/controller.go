package userlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// DefaultPageSize is the number of users requested per page.
const DefaultPageSize = 9

// Controller owns the paginated user list of one session, the single active
// edit draft, and orchestrates the remote calls triggered by user actions.
//
// The state record is guarded by mu, which is never held across a remote
// call. Page fetches carry a sequence number; a response that is no longer
// the latest is discarded.
type Controller struct {
	api      API
	pageSize int
	log      *zap.Logger
	validate *validator.Validate

	mu          sync.Mutex
	status      Status
	page        domain.PageState
	activeDraft *Draft
	message     string
	lastErr     error
	seq         uint64
	loadedOnce  bool
}

// New creates a controller in the Idle state.
func New(api API, pageSize int, log *zap.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		api:      api,
		pageSize: pageSize,
		log:      log,
		validate: validator.New(),
		status:   StatusIdle,
		page:     domain.NewPageState(),
	}
}

// Mount loads the current page, as happens when the list view is first shown.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	page := c.page.CurrentPage
	c.mu.Unlock()
	return c.load(ctx, page)
}

// GoTo loads page. Once the page count is known the target is clamped to it.
func (c *Controller) GoTo(ctx context.Context, page int) error {
	return c.load(ctx, page)
}

// Next loads the following page. It is a no-op on the last page.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if !c.page.HasNext() {
		c.mu.Unlock()
		return nil
	}
	target := c.page.CurrentPage + 1
	c.mu.Unlock()
	return c.load(ctx, target)
}

// Previous loads the preceding page. It is a no-op on the first page.
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	if !c.page.HasPrevious() {
		c.mu.Unlock()
		return nil
	}
	target := c.page.CurrentPage - 1
	c.mu.Unlock()
	return c.load(ctx, target)
}

func (c *Controller) load(ctx context.Context, page int) error {
	log := logger.WithContext(ctx, c.log)

	c.mu.Lock()
	if c.loadedOnce {
		page = c.page.Clamp(page)
	} else if page < 1 {
		page = 1
	}
	c.seq++
	seq := c.seq
	c.status = StatusLoading
	c.activeDraft = nil
	c.mu.Unlock()

	log.Info("listing users", zap.Int("page", page), zap.Int("per_page", c.pageSize), zap.Uint64("seq", seq))
	res, err := c.api.ListUsers(ctx, page, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.Debug("discarding stale page response", zap.Int("page", page), zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return nil
	}

	if err != nil {
		log.Error("failed to list users", zap.Int("page", page), zap.Error(err))
		c.status = StatusLoadError
		c.page.CurrentPage = page
		c.page.Items = nil
		c.fail(err)
		return err
	}

	next := domain.PageState{CurrentPage: page, TotalPages: res.TotalPages, Items: res.Items}
	if next.CurrentPage > next.TotalPages {
		next.CurrentPage = next.TotalPages
	}
	c.page = next
	c.status = StatusLoaded
	c.loadedOnce = true
	c.message = ""
	c.lastErr = nil
	return nil
}

// BeginEdit puts the row with id into edit mode, replacing any other draft.
func (c *Controller) BeginEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusLoaded {
		return c.fail(fmt.Errorf("edit user %d while %s: %w", id, c.status, apperrors.ErrInvalidState))
	}
	i := c.page.IndexOf(id)
	if i < 0 {
		return c.fail(fmt.Errorf("edit user %d not on page: %w", id, apperrors.ErrInvalidState))
	}

	u := c.page.Items[i]
	c.activeDraft = &Draft{
		TargetID:  u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
	c.message = ""
	c.lastErr = nil
	return nil
}

// ChangeDraft overwrites fields of the active draft.
func (c *Controller) ChangeDraft(change DraftChange) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeDraft == nil {
		return c.fail(fmt.Errorf("change draft without edit: %w", apperrors.ErrInvalidState))
	}
	change.apply(c.activeDraft)
	return nil
}

// CancelEdit discards the active draft, if any.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeDraft = nil
}

// Save validates the active draft and sends it to the remote API. An invalid
// draft stays in edit mode and no request is made. On success the row is
// replaced by the server response and edit mode ends; on failure the draft is kept.
func (c *Controller) Save(ctx context.Context) error {
	log := logger.WithContext(ctx, c.log)

	c.mu.Lock()
	if c.activeDraft == nil {
		err := c.fail(fmt.Errorf("save without edit: %w", apperrors.ErrInvalidState))
		c.mu.Unlock()
		return err
	}
	draft := *c.activeDraft
	if err := c.validate.Struct(draft); err != nil {
		log.Warn("validate failed", zap.Int64("id", draft.TargetID), zap.Error(err))
		verr := c.fail(apperrors.NewValidationError("", "All fields are required"))
		c.mu.Unlock()
		return verr
	}
	c.mu.Unlock()

	log.Info("updating user", zap.Int64("id", draft.TargetID))
	updated, err := c.api.UpdateUser(ctx, draft.TargetID, draft.Patch())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Error("failed to update user", zap.Int64("id", draft.TargetID), zap.Error(err))
		return c.fail(err)
	}

	row := *updated
	if i := c.page.IndexOf(row.ID); i >= 0 && row.Avatar == "" {
		// the remote API does not echo the avatar
		row.Avatar = c.page.Items[i].Avatar
	}
	c.page, _ = c.page.Replace(row)
	if c.activeDraft != nil && c.activeDraft.TargetID == draft.TargetID {
		c.activeDraft = nil
	}
	c.message = "User updated successfully"
	c.lastErr = nil
	return nil
}

// Delete removes the row with id after confirmation. Rows in edit mode cannot
// be deleted. A declined confirmation changes nothing.
func (c *Controller) Delete(ctx context.Context, id int64, confirmer Confirmer) error {
	log := logger.WithContext(ctx, c.log)

	c.mu.Lock()
	if c.status != StatusLoaded {
		err := c.fail(fmt.Errorf("delete user %d while %s: %w", id, c.status, apperrors.ErrInvalidState))
		c.mu.Unlock()
		return err
	}
	if c.activeDraft != nil && c.activeDraft.TargetID == id {
		err := c.fail(fmt.Errorf("delete user %d while editing: %w", id, apperrors.ErrInvalidState))
		c.mu.Unlock()
		return err
	}
	i := c.page.IndexOf(id)
	if i < 0 {
		err := c.fail(fmt.Errorf("delete user %d not on page: %w", id, apperrors.ErrInvalidState))
		c.mu.Unlock()
		return err
	}
	target := c.page.Items[i]
	c.mu.Unlock()

	if confirmer == nil || !confirmer.Confirm(ctx, target) {
		log.Debug("delete not confirmed", zap.Int64("id", id))
		return nil
	}

	log.Info("deleting user", zap.Int64("id", id))
	err := c.api.DeleteUser(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return c.fail(err)
	}

	c.page, _ = c.page.Remove(id)
	c.message = "User deleted successfully"
	c.lastErr = nil
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.User, len(c.page.Items))
	copy(items, c.page.Items)

	var draft *Draft
	if c.activeDraft != nil {
		d := *c.activeDraft
		draft = &d
	}

	return Snapshot{
		Status:      c.status,
		CurrentPage: c.page.CurrentPage,
		TotalPages:  c.page.TotalPages,
		Items:       items,
		Draft:       draft,
		HasPrevious: c.page.HasPrevious(),
		HasNext:     c.page.HasNext(),
		Message:     c.message,
		Error:       apperrors.Kind(c.lastErr),
	}
}

// fail records err as the user-visible outcome and returns it. mu must be held.
func (c *Controller) fail(err error) error {
	c.lastErr = err
	c.message = apperrors.Message(err)
	return err
}
