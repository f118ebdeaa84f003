package action

import (
	"context"
	"sync"

	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

// Invocation is one action execution handed to a handler. Params have
// already had embedded expressions evaluated.
type Invocation struct {
	// RequestID identifies this execution for best-effort cancellation.
	RequestID string

	// SessionID scopes the request to the owning engine instance.
	SessionID string

	Def    ir.ActionDefinition
	Params map[string]any
	State  *state.Store
}

// Handler executes one action kind.
type Handler func(ctx context.Context, inv *Invocation) error

// Registry maps action kinds (and custom names) to handlers. Like the
// resolver registries it is an explicit object, threaded by reference,
// so hosts can extend or override execution without global state.
type Registry struct {
	mu     sync.RWMutex
	byKind map[ir.ActionKind]Handler
	byName map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[ir.ActionKind]Handler),
		byName: make(map[string]Handler),
	}
}

// Register adds (or replaces) the handler for a built-in kind,
// overriding the default behavior.
func (r *Registry) Register(kind ir.ActionKind, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind] = h
}

// RegisterCustom adds (or replaces) the handler for a custom kind by
// its wire name.
func (r *Registry) RegisterCustom(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = h
}

// Handler looks up the handler for a definition: custom kinds by name,
// built-ins by kind.
func (r *Registry) Handler(def ir.ActionDefinition) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def.Kind == ir.ActionCustom {
		h, ok := r.byName[def.Name]
		return h, ok
	}
	h, ok := r.byKind[def.Kind]
	return h, ok
}
