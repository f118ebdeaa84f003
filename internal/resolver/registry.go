package resolver

import (
	"sync"

	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
)

// ComponentFunc resolves one document node kind into one IR node.
type ComponentFunc func(rc *Context, n *document.Node) (ir.Node, error)

// LayoutFunc arranges a container's resolved children along an axis.
type LayoutFunc func(rc *Context, n *document.Node, box ir.Box, children []ir.Node) (ir.Node, error)

// SectionFunc arranges a section's resolved children per its layout
// config.
type SectionFunc func(rc *Context, n *document.Node, box ir.Box, cfg *document.SectionConfig, children []ir.Node) (ir.Node, error)

// Registries holds the kind-keyed resolver strategies. It is an
// explicit object constructed at startup and threaded through the
// resolution call by reference, never a process-wide singleton, so
// tests stay isolated and multiple documents can coexist with
// different extensions.
type Registries struct {
	mu         sync.RWMutex
	components map[string]ComponentFunc
	layouts    map[string]LayoutFunc
	sections   map[string]SectionFunc
}

// NewRegistries creates empty registries.
func NewRegistries() *Registries {
	return &Registries{
		components: make(map[string]ComponentFunc),
		layouts:    make(map[string]LayoutFunc),
		sections:   make(map[string]SectionFunc),
	}
}

// DefaultRegistries creates registries with every built-in resolver
// registered.
func DefaultRegistries() *Registries {
	r := NewRegistries()
	registerBuiltins(r)
	return r
}

// RegisterComponent adds (or replaces) a component resolver for kind.
func (r *Registries) RegisterComponent(kind string, fn ComponentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[kind] = fn
}

// Component looks up the resolver for kind.
func (r *Registries) Component(kind string) (ComponentFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.components[kind]
	return fn, ok
}

// RegisterLayout adds (or replaces) a layout strategy for axis.
func (r *Registries) RegisterLayout(axis string, fn LayoutFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[axis] = fn
}

// Layout looks up the strategy for axis.
func (r *Registries) Layout(axis string) (LayoutFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.layouts[axis]
	return fn, ok
}

// RegisterSection adds (or replaces) a section-layout resolver.
func (r *Registries) RegisterSection(layout string, fn SectionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections[layout] = fn
}

// Section looks up the resolver for a section layout.
func (r *Registries) Section(layout string) (SectionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.sections[layout]
	return fn, ok
}
