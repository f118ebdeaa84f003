package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MajorVersion is the document schema major version this library
// understands. Minor and patch revisions within it are additive-only.
const MajorVersion = 1

var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Validate checks a decoded document and returns every problem found.
// An empty result means resolution may start.
func Validate(doc *Document) Issues {
	v := &validator{styles: doc.Styles, actions: doc.Actions}

	if doc.Version == "" {
		v.add("version", CodeMissingField, "version is required")
	} else if m := versionRe.FindStringSubmatch(doc.Version); m == nil {
		v.add("version", CodeTypeMismatch, fmt.Sprintf("version %q is not MAJOR.MINOR.PATCH", doc.Version))
	} else if major, _ := strconv.Atoi(m[1]); major > MajorVersion {
		v.add("version", CodeOutOfRange, fmt.Sprintf("document major version %d exceeds supported %d", major, MajorVersion))
	}

	if doc.Root == nil {
		v.add("root", CodeMissingField, "root node is required")
	} else {
		v.node("root", doc.Root)
	}

	for name, style := range doc.Styles {
		v.style("styles."+name, style)
	}
	for name, action := range doc.Actions {
		v.action("actions."+name, action)
	}

	return v.issues
}

type validator struct {
	styles  map[string]*Style
	actions map[string]Action
	issues  Issues
}

func (v *validator) add(path, code, msg string) {
	v.issues = append(v.issues, Issue{Path: path, Code: code, Message: msg})
}

func (v *validator) node(path string, n *Node) {
	if n.Kind == "" {
		v.add(path+".kind", CodeMissingField, "node kind is required")
	}

	if n.Style != "" {
		if _, ok := v.styles[n.Style]; !ok {
			v.add(path+".style", CodeUnknownRef, fmt.Sprintf("style %q is not defined", n.Style))
		}
	}
	if n.ActionRef != "" {
		if len(n.Action) > 0 {
			v.add(path, CodeExclusiveFields, "action and actionRef are mutually exclusive")
		}
		if _, ok := v.actions[n.ActionRef]; !ok {
			v.add(path+".actionRef", CodeUnknownRef, fmt.Sprintf("action %q is not defined", n.ActionRef))
		}
	}
	if len(n.Action) > 0 {
		v.action(path+".action", n.Action)
	}

	switch n.Kind {
	case KindContainer:
		if n.Axis != "" && n.Axis != "vertical" && n.Axis != "horizontal" && n.Axis != "stack" {
			v.add(path+".axis", CodeInvalidEnum, fmt.Sprintf("unknown axis %q", n.Axis))
		}
		if n.Spacing != nil && *n.Spacing < 0 {
			v.add(path+".spacing", CodeOutOfRange, "spacing cannot be negative")
		}
	case KindTextField, KindToggle, KindSlider:
		if n.Bind == "" {
			v.add(path+".bind", CodeMissingField, fmt.Sprintf("%s requires a state binding", n.Kind))
		}
	case KindRepeater:
		if n.Items == "" {
			v.add(path+".items", CodeMissingField, "repeater requires an items path")
		}
		if n.Template == nil {
			v.add(path+".template", CodeMissingField, "repeater requires a template")
		}
		if len(n.Children) > 0 {
			v.add(path, CodeExclusiveFields, "repeater uses template, not children")
		}
	case KindSection:
		if n.Section == nil {
			v.add(path+".section", CodeMissingField, "section requires a layout config")
		} else {
			v.section(path+".section", n.Section)
		}
	}

	if n.InlineStyle != nil {
		v.style(path+".inlineStyle", n.InlineStyle)
	}
	if n.Alignment != nil {
		v.alignment(path+".alignment", n.Alignment)
	}
	if n.Template != nil {
		v.node(path+".template", n.Template)
	}
	if n.Empty != nil {
		v.node(path+".empty", n.Empty)
	}
	for i, child := range n.Children {
		v.node(fmt.Sprintf("%s.children.%d", path, i), child)
	}
}

func (v *validator) section(path string, s *SectionConfig) {
	switch s.Layout {
	case "":
		v.add(path+".layout", CodeMissingField, "section layout is required")
	case "list", "grid", "flow":
	default:
		v.add(path+".layout", CodeInvalidEnum, fmt.Sprintf("unknown section layout %q", s.Layout))
	}
	if s.Layout == "grid" && s.Columns < 1 {
		v.add(path+".columns", CodeOutOfRange, "grid requires at least one column")
	}
	if s.Spacing != nil && *s.Spacing < 0 {
		v.add(path+".spacing", CodeOutOfRange, "spacing cannot be negative")
	}
}

func (v *validator) style(path string, s *Style) {
	if s.Inherits != "" {
		if _, ok := v.styles[s.Inherits]; !ok {
			v.add(path+".inherits", CodeUnknownRef, fmt.Sprintf("parent style %q is not defined", s.Inherits))
		}
	}
	if s.Opacity != nil && (*s.Opacity < 0 || *s.Opacity > 1) {
		v.add(path+".opacity", CodeOutOfRange, "opacity must be within [0, 1]")
	}
	if s.FontSize != nil && *s.FontSize <= 0 {
		v.add(path+".fontSize", CodeOutOfRange, "fontSize must be positive")
	}
	if s.FontWeight != nil {
		switch *s.FontWeight {
		case "regular", "medium", "semibold", "bold", "heavy", "light", "thin":
		default:
			v.add(path+".fontWeight", CodeInvalidEnum, fmt.Sprintf("unknown fontWeight %q", *s.FontWeight))
		}
	}
	for name, d := range map[string]*Dimension{
		"width": s.Width, "height": s.Height,
		"minWidth": s.MinWidth, "maxWidth": s.MaxWidth,
		"minHeight": s.MinHeight, "maxHeight": s.MaxHeight,
	} {
		if d == nil {
			continue
		}
		if d.Fraction != nil && (*d.Fraction < 0 || *d.Fraction > 1) {
			v.add(path+"."+name, CodeOutOfRange, "fraction must be within [0, 1]")
		}
		if d.Value != nil && *d.Value < 0 {
			v.add(path+"."+name, CodeOutOfRange, "dimension cannot be negative")
		}
	}
}

func (v *validator) alignment(path string, a *Alignment) {
	if a.Horizontal != "" && a.Horizontal != "leading" && a.Horizontal != "center" && a.Horizontal != "trailing" {
		v.add(path+".horizontal", CodeInvalidEnum, fmt.Sprintf("unknown horizontal alignment %q", a.Horizontal))
	}
	if a.Vertical != "" && a.Vertical != "top" && a.Vertical != "center" && a.Vertical != "bottom" {
		v.add(path+".vertical", CodeInvalidEnum, fmt.Sprintf("unknown vertical alignment %q", a.Vertical))
	}
}

func (v *validator) action(path string, a Action) {
	t := a.Type()
	if t == "" {
		v.add(path+".type", CodeMissingField, "action type is required")
		return
	}
	switch t {
	case "setState", "toggleState":
		if s, _ := a["path"].(string); strings.TrimSpace(s) == "" {
			v.add(path+".path", CodeMissingField, t+" requires a state path")
		}
	case "sequence":
		steps, ok := a["steps"].([]any)
		if !ok || len(steps) == 0 {
			v.add(path+".steps", CodeMissingField, "sequence requires steps")
			return
		}
		for i, raw := range steps {
			step, ok := raw.(map[string]any)
			if !ok {
				v.add(fmt.Sprintf("%s.steps.%d", path, i), CodeTypeMismatch, "step must be an action object")
				continue
			}
			v.action(fmt.Sprintf("%s.steps.%d", path, i), Action(step))
		}
	case "navigate":
		if s, _ := a["destination"].(string); strings.TrimSpace(s) == "" {
			v.add(path+".destination", CodeMissingField, "navigate requires a destination")
		}
	}
	// Unknown types are custom action kinds; the registry or the host
	// delegate handles them at execution time.
}
