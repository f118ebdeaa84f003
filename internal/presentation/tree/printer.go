// Package tree renders resolved render trees as indented, optionally
// colored text for terminal inspection.
package tree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/scalskit/scals/pkg/ir"
)

// Printer writes a human-readable outline of a render tree.
type Printer struct {
	profile termenv.Profile
}

// NewPrinter creates a printer. Color degrades automatically when w is
// not a terminal.
func NewPrinter(w io.Writer) *Printer {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.ColorProfile()
	}
	return &Printer{profile: profile}
}

// Fprint writes the outline of tree to w.
func (p *Printer) Fprint(w io.Writer, tree *ir.Tree) error {
	if tree == nil || tree.Root == nil {
		_, err := fmt.Fprintln(w, "(empty tree)")
		return err
	}
	var sb strings.Builder
	p.writeNode(&sb, tree.Root, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (p *Printer) writeNode(sb *strings.Builder, n ir.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString(p.kind(n))
	if id := n.NodeID(); id != "" {
		sb.WriteString(" ")
		sb.WriteString(p.dim("#" + id))
	}
	if detail := nodeDetail(n); detail != "" {
		sb.WriteString(" ")
		sb.WriteString(p.value(detail))
	}
	sb.WriteString("\n")

	for _, child := range children(n) {
		p.writeNode(sb, child, depth+1)
	}
}

func children(n ir.Node) []ir.Node {
	switch t := n.(type) {
	case *ir.Container:
		return t.Children
	case *ir.Section:
		return t.Children
	}
	return nil
}

func nodeDetail(n ir.Node) string {
	switch t := n.(type) {
	case *ir.Container:
		return fmt.Sprintf("axis=%s spacing=%g", t.Axis, t.Spacing)
	case *ir.Text:
		return fmt.Sprintf("%q", t.Content)
	case *ir.Button:
		return fmt.Sprintf("%q", t.Title)
	case *ir.Image:
		return t.URL
	case *ir.TextField:
		return "bind=" + t.Bind
	case *ir.Toggle:
		return "bind=" + t.Bind
	case *ir.Slider:
		return fmt.Sprintf("bind=%s [%g..%g]", t.Bind, t.Min, t.Max)
	case *ir.Section:
		return fmt.Sprintf("layout=%s", t.Layout)
	case *ir.Shape:
		return t.Form
	case *ir.Gradient:
		return fmt.Sprintf("%s, %d stops", t.Direction, len(t.Stops))
	case *ir.Custom:
		return t.Name
	}
	return ""
}

func (p *Printer) kind(n ir.Node) string {
	s := string(n.NodeKind())
	if p.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(p.profile.Color("#818cf8")).Bold().String()
}

func (p *Printer) dim(s string) string {
	if p.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Faint().String()
}

func (p *Printer) value(s string) string {
	if p.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(p.profile.Color("#a78bfa")).String()
}
