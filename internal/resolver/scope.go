package resolver

import (
	"strings"

	"github.com/scalskit/scals/pkg/expr"
	"github.com/scalskit/scals/pkg/state"
)

// Scope binds loop variables over an outer value source. A binding
// shadows any outer path sharing its first segment, but only for the
// repeater instance that owns the scope.
type Scope struct {
	parent expr.Source
	vars   map[string]state.Value
}

// NewScope creates a scope over parent with the given bindings.
func NewScope(parent expr.Source, vars map[string]state.Value) *Scope {
	return &Scope{parent: parent, vars: vars}
}

// Lookup implements expr.Source. Bound variables resolve locally
// (including nested paths into a bound value); everything else falls
// through to the parent source.
func (s *Scope) Lookup(path string) state.Value {
	head, rest, _ := strings.Cut(path, ".")
	if v, ok := s.vars[head]; ok {
		if rest == "" {
			return v
		}
		return v.At(rest)
	}
	return s.parent.Lookup(path)
}
