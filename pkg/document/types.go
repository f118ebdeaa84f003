package document

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Node kinds understood by the built-in resolvers. Kinds outside this
// list are not a decode error: hosts register custom resolvers for them,
// and an unhandled kind surfaces as a scoped resolution error instead.
const (
	KindContainer     = "container"
	KindText          = "text"
	KindButton        = "button"
	KindImage         = "image"
	KindTextField     = "textField"
	KindToggle        = "toggle"
	KindSlider        = "slider"
	KindSpacer        = "spacer"
	KindDivider       = "divider"
	KindGradient      = "gradient"
	KindShape         = "shape"
	KindPageIndicator = "pageIndicator"
	KindSection       = "section"
	KindRepeater      = "repeater"
)

// Document is the decoded wire-format tree. It is immutable after
// decoding; resolution never mutates it.
type Document struct {
	// Version is the semantic version of the document schema. Minor and
	// patch bumps are additive-only; unknown optional fields and enum
	// cases inside a supported major version fall back gracefully.
	Version string `json:"version"`

	Root *Node `json:"root"`

	// Styles is the named style table referenced by nodes.
	Styles map[string]*Style `json:"styles,omitempty"`

	// State seeds the state store when an engine is created.
	State map[string]any `json:"state,omitempty"`

	// Actions is the named action table referenced by actionRef.
	Actions map[string]Action `json:"actions,omitempty"`
}

// Action is a loosely-typed action definition: {"type": <kind>, ...}.
// The action resolver maps it to a typed parameter bag.
type Action map[string]any

// Type returns the action kind, or "" when absent.
func (a Action) Type() string {
	t, _ := a["type"].(string)
	return t
}

// Node is one node of the document tree. A single struct covers all
// kinds; which fields are meaningful depends on Kind, and validation
// enforces the per-kind requirements.
type Node struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`

	// Style is a named style reference; InlineStyle overrides on top of
	// it. Both are optional.
	Style       string `json:"style,omitempty"`
	InlineStyle *Style `json:"inlineStyle,omitempty"`

	Padding   *Padding   `json:"padding,omitempty"`
	Alignment *Alignment `json:"alignment,omitempty"`

	// Content is static text, a ${...} expression, or a template.
	Content string `json:"content,omitempty"`

	// Bind is a state path for two-way primitives (textField, toggle,
	// slider) and for state-path-bound content.
	Bind string `json:"bind,omitempty"`

	// Action (inline) and ActionRef (into Document.Actions) are
	// mutually exclusive.
	Action    Action `json:"action,omitempty"`
	ActionRef string `json:"actionRef,omitempty"`

	// Container layout.
	Axis    string   `json:"axis,omitempty"` // vertical, horizontal, stack
	Spacing *float64 `json:"spacing,omitempty"`

	// Section layout configuration (kind "section").
	Section *SectionConfig `json:"section,omitempty"`

	// Repeater configuration (kind "repeater").
	Items    string `json:"items,omitempty"` // array-valued state path
	ItemVar  string `json:"itemVar,omitempty"`
	IndexVar string `json:"indexVar,omitempty"`
	Template *Node  `json:"template,omitempty"`
	Empty    *Node  `json:"empty,omitempty"` // rendered when the array is empty

	Children []*Node `json:"children,omitempty"`

	// Props carries kind-specific extras (image url, shape form, slider
	// bounds, gradient stops, page count, custom component payloads).
	Props map[string]any `json:"props,omitempty"`
}

// SectionConfig configures a section layout: a scrollable list, grid, or
// flow arrangement resolved via the section-layout registry.
type SectionConfig struct {
	Layout  string   `json:"layout"` // list, grid, flow
	Columns int      `json:"columns,omitempty"`
	Spacing *float64 `json:"spacing,omitempty"`
}

// Style is a named, single-parent-inheriting bag of presentation
// properties. Pointer fields distinguish "absent" (inherits) from an
// explicit value; a present composite with every sub-field absent is a
// clear instruction.
type Style struct {
	Inherits string `json:"inherits,omitempty"`

	ForegroundColor *string  `json:"foregroundColor,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontWeight      *string  `json:"fontWeight,omitempty"`
	CornerRadius    *float64 `json:"cornerRadius,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`

	// Composites: sub-fields merge independently across the chain; an
	// explicitly-present composite with all sub-fields absent clears.
	Shadow  *Shadow  `json:"shadow,omitempty"`
	Padding *Padding `json:"padding,omitempty"`

	// Dimensions overwrite wholesale, never merge across
	// representations.
	Width     *Dimension `json:"width,omitempty"`
	Height    *Dimension `json:"height,omitempty"`
	MinWidth  *Dimension `json:"minWidth,omitempty"`
	MaxWidth  *Dimension `json:"maxWidth,omitempty"`
	MinHeight *Dimension `json:"minHeight,omitempty"`
	MaxHeight *Dimension `json:"maxHeight,omitempty"`
}

// Shadow is a composite style property with independent sub-fields.
type Shadow struct {
	Color  *string  `json:"color,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

// IsClear reports whether the shadow is the clearing sentinel: present
// with every sub-field absent.
func (s *Shadow) IsClear() bool {
	return s != nil && s.Color == nil && s.Radius == nil && s.X == nil && s.Y == nil
}

// Padding expresses edge insets through several equivalent syntaxes:
// all, horizontal/vertical shorthands, and specific edges. Specific
// edges beat shorthands, shorthands beat all.
type Padding struct {
	All        *float64 `json:"all,omitempty"`
	Horizontal *float64 `json:"horizontal,omitempty"`
	Vertical   *float64 `json:"vertical,omitempty"`
	Top        *float64 `json:"top,omitempty"`
	Bottom     *float64 `json:"bottom,omitempty"`
	Leading    *float64 `json:"leading,omitempty"`
	Trailing   *float64 `json:"trailing,omitempty"`
}

// IsClear reports whether the padding is the clearing sentinel.
func (p *Padding) IsClear() bool {
	return p != nil && p.All == nil && p.Horizontal == nil && p.Vertical == nil &&
		p.Top == nil && p.Bottom == nil && p.Leading == nil && p.Trailing == nil
}

// UnmarshalJSON accepts either a bare number (uniform padding) or the
// object form.
func (p *Padding) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Padding{All: &n}
		return nil
	}
	type alias Padding
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &FieldError{Code: CodeTypeMismatch, Message: "padding must be a number or an object of edges"}
	}
	*p = Padding(a)
	return nil
}

// Dimension is an absolute-or-fractional size. Exactly one of Value and
// Fraction is set after decoding.
type Dimension struct {
	Value    *float64 `json:"value,omitempty"`
	Fraction *float64 `json:"fraction,omitempty"`
}

// UnmarshalJSON accepts a bare number (absolute) or the object form.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Dimension{Value: &n}
		return nil
	}
	type alias Dimension
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &FieldError{Code: CodeTypeMismatch, Message: "dimension must be a number or {value}/{fraction}"}
	}
	if a.Value != nil && a.Fraction != nil {
		return &FieldError{Code: CodeExclusiveFields, Message: "dimension cannot set both value and fraction"}
	}
	*d = Dimension(a)
	return nil
}

// Alignment is either a string shortcut ("center", "topLeading", ...)
// or an object with explicit horizontal/vertical components.
type Alignment struct {
	Horizontal string `json:"horizontal,omitempty"` // leading, center, trailing
	Vertical   string `json:"vertical,omitempty"`   // top, center, bottom
}

var alignmentShortcuts = map[string]Alignment{
	"center":         {Horizontal: "center", Vertical: "center"},
	"top":            {Horizontal: "center", Vertical: "top"},
	"bottom":         {Horizontal: "center", Vertical: "bottom"},
	"leading":        {Horizontal: "leading", Vertical: "center"},
	"trailing":       {Horizontal: "trailing", Vertical: "center"},
	"topLeading":     {Horizontal: "leading", Vertical: "top"},
	"topTrailing":    {Horizontal: "trailing", Vertical: "top"},
	"bottomLeading":  {Horizontal: "leading", Vertical: "bottom"},
	"bottomTrailing": {Horizontal: "trailing", Vertical: "bottom"},
}

// UnmarshalJSON accepts the string shortcut or the object form.
func (a *Alignment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		got, ok := alignmentShortcuts[s]
		if !ok {
			return &FieldError{Code: CodeInvalidEnum, Message: fmt.Sprintf("unknown alignment %q", s)}
		}
		*a = got
		return nil
	}
	type alias Alignment
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return &FieldError{Code: CodeTypeMismatch, Message: "alignment must be a string or {horizontal, vertical}"}
	}
	*a = Alignment(obj)
	return nil
}
