package booking

import (
	"sync"

	"go.uber.org/zap"
)

// Registry hands out one Flow per signed-in user so calendar state survives
// across page loads within a session. Flows are transient: dropped on
// logout, never persisted.
type Registry struct {
	api        SlotAPI
	providerID string
	logger     *zap.Logger

	mu    sync.Mutex
	flows map[string]*Flow
}

func NewRegistry(api SlotAPI, providerID string, logger *zap.Logger) *Registry {
	return &Registry{
		api:        api,
		providerID: providerID,
		logger:     logger,
		flows:      make(map[string]*Flow),
	}
}

// For returns the flow for a user, creating it on first use.
func (r *Registry) For(userID string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()

	flow, ok := r.flows[userID]
	if !ok {
		flow = NewFlow(r.api, r.providerID, r.logger)
		r.flows[userID] = flow
	}
	return flow
}

// Drop discards a user's flow, typically on logout.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, userID)
}
