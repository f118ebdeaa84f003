package resolver

import (
	"fmt"
	"strings"
)

// CycleError reports a cyclic style inheritance chain. The affected
// subtree is aborted; the rest of the tree stays valid.
type CycleError struct {
	Style string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("style %q has a cyclic inheritance chain: %s",
		e.Style, strings.Join(e.Chain, " -> "))
}

// UnknownKindError reports a document node whose kind has no registered
// resolver. Scoped to the node's subtree.
type UnknownKindError struct {
	Kind   string
	NodeID string
}

func (e *UnknownKindError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("no resolver registered for kind %q (node %q)", e.Kind, e.NodeID)
	}
	return fmt.Sprintf("no resolver registered for kind %q", e.Kind)
}
