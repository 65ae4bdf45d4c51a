package userlist

import (
	"sync"

	"go.uber.org/zap"
)

// Registry holds one controller per browser session.
type Registry struct {
	api      API
	pageSize int
	log      *zap.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry(api API, pageSize int, log *zap.Logger) *Registry {
	return &Registry{
		api:         api,
		pageSize:    pageSize,
		log:         log,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[sessionID]
	if !ok {
		c = New(r.api, r.pageSize, r.log)
		r.controllers[sessionID] = c
	}
	return c
}

// Drop forgets the controller of sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, sessionID)
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
