package resolver

import (
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/expr"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

func intersects(read, written string) bool {
	return state.PathsIntersect(read, written)
}

// ViewNode is the reactive-tracking shadow of one resolved document
// node. It exists only when reactivity is enabled. Children are owned;
// the parent pointer is non-owning, so the tree stays acyclic for
// ownership purposes while still supporting upward traversal.
type ViewNode struct {
	ID  string
	Doc *document.Node

	Parent   *ViewNode
	Children []*ViewNode

	// Reads and Writes are the state paths touched while resolving this
	// node's own bracket (children keep their own sets).
	Reads  map[string]struct{}
	Writes map[string]struct{}

	// scope is the value source captured at resolution time, so a
	// repeater instance re-resolves against its own loop bindings.
	scope expr.Source

	// attach splices a freshly resolved IR node into the slot this node
	// occupies in its parent's IR children (or the tree root).
	attach func(ir.Node)
}

// ReadsAny reports whether any of the given paths intersects this
// node's read-set.
func (v *ViewNode) ReadsAny(paths map[string]struct{}) bool {
	for read := range v.Reads {
		for written := range paths {
			if intersects(read, written) {
				return true
			}
		}
	}
	return false
}

// Walk visits the subtree rooted at v in depth-first order. Returning
// false from fn prunes the node's children.
func (v *ViewNode) Walk(fn func(*ViewNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// Destroy detaches the subtree from its parent. Dependency collection
// walks the tree, so a detached subtree can no longer be re-resolved;
// its subscriptions are thereby invalidated along with every
// descendant's.
func (v *ViewNode) Destroy() {
	if v.Parent != nil {
		v.Parent.removeChild(v)
		v.Parent = nil
	}
	v.clear()
}

func (v *ViewNode) clear() {
	for _, c := range v.Children {
		c.Parent = nil
		c.clear()
	}
	v.Children = nil
	v.attach = nil
}

func (v *ViewNode) removeChild(child *ViewNode) {
	for i, c := range v.Children {
		if c == child {
			v.Children = append(v.Children[:i], v.Children[i+1:]...)
			return
		}
	}
}

func (v *ViewNode) replaceChild(old, repl *ViewNode) {
	for i, c := range v.Children {
		if c == old {
			v.Children[i] = repl
			return
		}
	}
	v.Children = append(v.Children, repl)
}
