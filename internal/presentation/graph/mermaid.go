// Package graph renders document trees as Mermaid flowcharts for
// inspection and docs.
package graph

import (
	"fmt"
	"strings"

	"github.com/scalskit/scals/pkg/document"
)

// GenerateMermaid produces a Mermaid flowchart of the document's node
// hierarchy. It applies semantic shapes:
//   - Root: ((Circle))
//   - Button: [[Subroutine]]
//   - Input (textField/toggle/slider): [/Parallelogram/]
//   - Repeater: {{Hexagon}}
//   - Default: [Rectangle]
//
// Action references are drawn as dotted edges to action nodes.
func GenerateMermaid(doc *document.Document) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if doc == nil || doc.Root == nil {
		return sb.String()
	}

	seq := 0
	var walk func(n *document.Node, parentID string, isRoot bool)
	walk = func(n *document.Node, parentID string, isRoot bool) {
		id := nodeGraphID(n, &seq)

		opener, closer := "[", "]"
		switch {
		case isRoot:
			opener, closer = "((", "))"
		case n.Kind == document.KindButton:
			opener, closer = "[[", "]]"
		case n.Kind == document.KindTextField, n.Kind == document.KindToggle, n.Kind == document.KindSlider:
			opener, closer = "[/", "/]"
		case n.Kind == document.KindRepeater:
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, nodeGraphLabel(n), closer))

		if parentID != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", parentID, id))
		}
		if n.ActionRef != "" {
			actionID := "action_" + sanitizeID(n.ActionRef)
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", actionID, n.ActionRef))
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", id, actionID))
		}

		for _, child := range n.Children {
			walk(child, id, false)
		}
		if n.Template != nil {
			walk(n.Template, id, false)
		}
		if n.Empty != nil {
			walk(n.Empty, id, false)
		}
	}
	walk(doc.Root, "", true)
	return sb.String()
}

func nodeGraphID(n *document.Node, seq *int) string {
	if n.ID != "" {
		return sanitizeID(n.ID)
	}
	*seq++
	return fmt.Sprintf("%s_%d", sanitizeID(n.Kind), *seq)
}

func nodeGraphLabel(n *document.Node) string {
	if n.ID != "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.ID)
	}
	return n.Kind
}

// sanitizeID keeps Mermaid identifiers to word characters.
func sanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}
