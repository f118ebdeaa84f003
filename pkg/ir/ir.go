package ir

// Kind tags every IR node with its primitive.
type Kind string

const (
	KindContainer     Kind = "container"
	KindText          Kind = "text"
	KindButton        Kind = "button"
	KindImage         Kind = "image"
	KindTextField     Kind = "textField"
	KindToggle        Kind = "toggle"
	KindSlider        Kind = "slider"
	KindSpacer        Kind = "spacer"
	KindDivider       Kind = "divider"
	KindGradient      Kind = "gradient"
	KindShape         Kind = "shape"
	KindPageIndicator Kind = "pageIndicator"
	KindSection       Kind = "section"
	KindCustom        Kind = "custom"
)

// Node is one fully resolved node of the render tree. Everything a
// renderer needs is concrete: no merging, arithmetic, or defaulting
// remains to be done downstream.
type Node interface {
	NodeKind() Kind
	NodeID() string
}

// Tree is the resolution output: a canonical flat node graph plus the
// document version it was resolved from.
type Tree struct {
	Version string `json:"version"`
	Root    Node   `json:"root"`
}

// Meta carries the discriminator fields shared by every node.
type Meta struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
}

func (m Meta) NodeKind() Kind { return m.Kind }
func (m Meta) NodeID() string { return m.ID }

// EdgeInsets is canonical padding: always four concrete edges. Every
// surface shorthand has been folded away by the time IR exists.
type EdgeInsets struct {
	Top      float64 `json:"top"`
	Bottom   float64 `json:"bottom"`
	Leading  float64 `json:"leading"`
	Trailing float64 `json:"trailing"`
}

// Alignment is the resolved two-axis alignment.
type Alignment struct {
	Horizontal string `json:"horizontal"` // leading, center, trailing
	Vertical   string `json:"vertical"`   // top, center, bottom
}

// DimensionKind selects the dimension representation.
type DimensionKind string

const (
	DimensionAbsolute DimensionKind = "absolute"
	DimensionFraction DimensionKind = "fraction"
)

// Dimension is one resolved size constraint.
type Dimension struct {
	Kind  DimensionKind `json:"kind"`
	Value float64       `json:"value"`
}

// Frame holds the resolved size constraints of a node. A nil entry means
// the constraint is genuinely unset, which is platform-agnostic.
type Frame struct {
	Width     *Dimension `json:"width,omitempty"`
	Height    *Dimension `json:"height,omitempty"`
	MinWidth  *Dimension `json:"minWidth,omitempty"`
	MaxWidth  *Dimension `json:"maxWidth,omitempty"`
	MinHeight *Dimension `json:"minHeight,omitempty"`
	MaxHeight *Dimension `json:"maxHeight,omitempty"`
}

// Shadow is a fully resolved shadow. It only appears when present; a
// node without shadow carries nil.
type Shadow struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Style is the resolved presentation of a node. Empty strings and zero
// sizes mean "platform default", which is a real, renderable value, not
// a pending merge.
type Style struct {
	ForegroundColor string  `json:"foregroundColor,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty"`
	CornerRadius    float64 `json:"cornerRadius,omitempty"`
	Opacity         float64 `json:"opacity"` // always concrete, 1 when unstyled
	Shadow          *Shadow `json:"shadow,omitempty"`
}

// Box bundles the resolved visual attributes shared by most primitives.
type Box struct {
	Padding EdgeInsets `json:"padding"`
	Frame   Frame      `json:"frame"`
	Style   Style      `json:"style"`
}

// Container lays out children along an axis.
type Container struct {
	Meta
	Box
	Axis      string    `json:"axis"` // vertical, horizontal, stack
	Spacing   float64   `json:"spacing"`
	Alignment Alignment `json:"alignment"`
	Children  []Node    `json:"children"`
}

// Text is a fully resolved text run; Content has already been
// interpolated or bound.
type Text struct {
	Meta
	Box
	Content string `json:"content"`
}

// Button is a tappable labeled control. Exactly one of Action and
// ActionRef is set when the document attached an action.
type Button struct {
	Meta
	Box
	Title     string            `json:"title"`
	Action    *ActionDefinition `json:"action,omitempty"`
	ActionRef string            `json:"actionRef,omitempty"`
}

// Image displays a remote or bundled asset.
type Image struct {
	Meta
	Box
	URL         string `json:"url"`
	ContentMode string `json:"contentMode,omitempty"` // fit, fill
}

// TextField is a two-way bound text input.
type TextField struct {
	Meta
	Box
	Placeholder string `json:"placeholder,omitempty"`
	Bind        string `json:"bind"`
}

// Toggle is a two-way bound boolean switch.
type Toggle struct {
	Meta
	Box
	Label string `json:"label,omitempty"`
	Bind  string `json:"bind"`
}

// Slider is a two-way bound numeric control.
type Slider struct {
	Meta
	Box
	Bind string  `json:"bind"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step,omitempty"`
}

// Spacer consumes free space along its container's axis.
type Spacer struct {
	Meta
	MinLength float64 `json:"minLength,omitempty"`
}

// Divider is a thin separator line.
type Divider struct {
	Meta
	Box
	Thickness float64 `json:"thickness"`
}

// GradientStop is one color stop along a gradient.
type GradientStop struct {
	Color    string  `json:"color"`
	Location float64 `json:"location"` // 0..1
}

// Gradient paints a linear gradient.
type Gradient struct {
	Meta
	Box
	Direction string         `json:"direction"` // vertical, horizontal, diagonal
	Stops     []GradientStop `json:"stops"`
}

// Shape draws a primitive form.
type Shape struct {
	Meta
	Box
	Form string `json:"form"` // rectangle, circle, capsule
}

// PageIndicator shows paging dots bound to a state path.
type PageIndicator struct {
	Meta
	Box
	Count int    `json:"count"`
	Bind  string `json:"bind,omitempty"`
}

// Section is a resolved collection arrangement.
type Section struct {
	Meta
	Box
	Layout   string  `json:"layout"` // list, grid, flow
	Columns  int     `json:"columns,omitempty"`
	Spacing  float64 `json:"spacing"`
	Children []Node  `json:"children"`
}

// Custom is the extension placeholder for host-registered primitives.
type Custom struct {
	Meta
	Box
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}
