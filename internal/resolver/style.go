package resolver

import (
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
)

// ResolvedStyle is the ephemeral artifact of folding an inheritance
// chain root→leaf. It keeps per-sub-field presence so composites can
// merge independently; it never reaches the IR — Materialize flattens it
// into concrete values first.
type ResolvedStyle struct {
	ForegroundColor *string
	BackgroundColor *string
	FontSize        *float64
	FontWeight      *string
	CornerRadius    *float64
	Opacity         *float64

	Shadow  document.Shadow
	Padding document.Padding

	Width     *document.Dimension
	Height    *document.Dimension
	MinWidth  *document.Dimension
	MaxWidth  *document.Dimension
	MinHeight *document.Dimension
	MaxHeight *document.Dimension
}

// StyleResolver folds named styles through their single-parent
// inheritance chains.
type StyleResolver struct {
	styles map[string]*document.Style
}

// NewStyleResolver creates a resolver over a document's style table.
func NewStyleResolver(styles map[string]*document.Style) *StyleResolver {
	return &StyleResolver{styles: styles}
}

// Resolve builds the ancestor chain for styleID and folds it root→leaf.
// A cycle in the chain is a resolution error, not a silent truncation.
func (r *StyleResolver) Resolve(styleID string) (*ResolvedStyle, error) {
	chain, err := r.chain(styleID)
	if err != nil {
		return nil, err
	}
	rs := &ResolvedStyle{}
	for _, s := range chain {
		rs.fold(s)
	}
	return rs, nil
}

// ResolveWithInline resolves the named style (which may be empty) and
// folds the node's inline style on top as the final leaf link.
func (r *StyleResolver) ResolveWithInline(styleID string, inline *document.Style) (*ResolvedStyle, error) {
	var rs *ResolvedStyle
	if styleID != "" {
		var err error
		rs, err = r.Resolve(styleID)
		if err != nil {
			return nil, err
		}
	} else {
		rs = &ResolvedStyle{}
	}
	if inline != nil {
		rs.fold(inline)
	}
	return rs, nil
}

// chain returns the inheritance chain ordered root first, leaf last.
func (r *StyleResolver) chain(styleID string) ([]*document.Style, error) {
	var reversed []*document.Style
	var walked []string
	seen := make(map[string]bool)

	id := styleID
	for id != "" {
		if seen[id] {
			return nil, &CycleError{Style: styleID, Chain: append(walked, id)}
		}
		seen[id] = true
		walked = append(walked, id)

		s, ok := r.styles[id]
		if !ok {
			// Validation catches dangling references before resolution;
			// stop the chain here if one slips through.
			break
		}
		reversed = append(reversed, s)
		id = s.Inherits
	}

	chain := make([]*document.Style, len(reversed))
	for i, s := range reversed {
		chain[len(reversed)-1-i] = s
	}
	return chain, nil
}

// fold merges one chain link into the accumulator. Scalars overwrite on
// presence; composite sub-fields merge independently unless the link
// carries the clearing sentinel, which resets every sub-field before the
// link's own values (none, by definition) apply — a later link may
// reintroduce the property. Dimensions overwrite wholesale.
func (rs *ResolvedStyle) fold(s *document.Style) {
	if s.ForegroundColor != nil {
		rs.ForegroundColor = s.ForegroundColor
	}
	if s.BackgroundColor != nil {
		rs.BackgroundColor = s.BackgroundColor
	}
	if s.FontSize != nil {
		rs.FontSize = s.FontSize
	}
	if s.FontWeight != nil {
		rs.FontWeight = s.FontWeight
	}
	if s.CornerRadius != nil {
		rs.CornerRadius = s.CornerRadius
	}
	if s.Opacity != nil {
		rs.Opacity = s.Opacity
	}

	if s.Shadow != nil {
		if s.Shadow.IsClear() {
			rs.Shadow = document.Shadow{}
		} else {
			if s.Shadow.Color != nil {
				rs.Shadow.Color = s.Shadow.Color
			}
			if s.Shadow.Radius != nil {
				rs.Shadow.Radius = s.Shadow.Radius
			}
			if s.Shadow.X != nil {
				rs.Shadow.X = s.Shadow.X
			}
			if s.Shadow.Y != nil {
				rs.Shadow.Y = s.Shadow.Y
			}
		}
	}

	if s.Padding != nil {
		rs.foldPadding(s.Padding)
	}

	if s.Width != nil {
		rs.Width = s.Width
	}
	if s.Height != nil {
		rs.Height = s.Height
	}
	if s.MinWidth != nil {
		rs.MinWidth = s.MinWidth
	}
	if s.MaxWidth != nil {
		rs.MaxWidth = s.MaxWidth
	}
	if s.MinHeight != nil {
		rs.MinHeight = s.MinHeight
	}
	if s.MaxHeight != nil {
		rs.MaxHeight = s.MaxHeight
	}
}

func (rs *ResolvedStyle) foldPadding(p *document.Padding) {
	if p.IsClear() {
		rs.Padding = document.Padding{}
		return
	}
	if p.All != nil {
		rs.Padding.All = p.All
	}
	if p.Horizontal != nil {
		rs.Padding.Horizontal = p.Horizontal
	}
	if p.Vertical != nil {
		rs.Padding.Vertical = p.Vertical
	}
	if p.Top != nil {
		rs.Padding.Top = p.Top
	}
	if p.Bottom != nil {
		rs.Padding.Bottom = p.Bottom
	}
	if p.Leading != nil {
		rs.Padding.Leading = p.Leading
	}
	if p.Trailing != nil {
		rs.Padding.Trailing = p.Trailing
	}
}

// FoldNodePadding applies a node-level padding as the final leaf link,
// with the same sentinel semantics as a style's padding.
func (rs *ResolvedStyle) FoldNodePadding(p *document.Padding) {
	if p != nil {
		rs.foldPadding(p)
	}
}

// HasShadow reports whether any shadow sub-field survived the fold.
func (rs *ResolvedStyle) HasShadow() bool {
	sh := rs.Shadow
	return sh.Color != nil || sh.Radius != nil || sh.X != nil || sh.Y != nil
}

// Materialize flattens the fold artifact into the concrete IR style,
// canonical four-edge padding, and frame. Specific edges beat the
// horizontal/vertical shorthands, which beat all.
func (rs *ResolvedStyle) Materialize() (ir.Style, ir.EdgeInsets, ir.Frame) {
	style := ir.Style{Opacity: 1}
	if rs.ForegroundColor != nil {
		style.ForegroundColor = *rs.ForegroundColor
	}
	if rs.BackgroundColor != nil {
		style.BackgroundColor = *rs.BackgroundColor
	}
	if rs.FontSize != nil {
		style.FontSize = *rs.FontSize
	}
	if rs.FontWeight != nil {
		style.FontWeight = *rs.FontWeight
	}
	if rs.CornerRadius != nil {
		style.CornerRadius = *rs.CornerRadius
	}
	if rs.Opacity != nil {
		style.Opacity = *rs.Opacity
	}
	if rs.HasShadow() {
		sh := &ir.Shadow{}
		if rs.Shadow.Color != nil {
			sh.Color = *rs.Shadow.Color
		}
		if rs.Shadow.Radius != nil {
			sh.Radius = *rs.Shadow.Radius
		}
		if rs.Shadow.X != nil {
			sh.X = *rs.Shadow.X
		}
		if rs.Shadow.Y != nil {
			sh.Y = *rs.Shadow.Y
		}
		style.Shadow = sh
	}

	return style, canonicalInsets(rs.Padding), ir.Frame{
		Width:     irDimension(rs.Width),
		Height:    irDimension(rs.Height),
		MinWidth:  irDimension(rs.MinWidth),
		MaxWidth:  irDimension(rs.MaxWidth),
		MinHeight: irDimension(rs.MinHeight),
		MaxHeight: irDimension(rs.MaxHeight),
	}
}

func canonicalInsets(p document.Padding) ir.EdgeInsets {
	edge := func(specific, shorthand *float64) float64 {
		if specific != nil {
			return *specific
		}
		if shorthand != nil {
			return *shorthand
		}
		if p.All != nil {
			return *p.All
		}
		return 0
	}
	return ir.EdgeInsets{
		Top:      edge(p.Top, p.Vertical),
		Bottom:   edge(p.Bottom, p.Vertical),
		Leading:  edge(p.Leading, p.Horizontal),
		Trailing: edge(p.Trailing, p.Horizontal),
	}
}

func irDimension(d *document.Dimension) *ir.Dimension {
	if d == nil {
		return nil
	}
	if d.Fraction != nil {
		return &ir.Dimension{Kind: ir.DimensionFraction, Value: *d.Fraction}
	}
	if d.Value != nil {
		return &ir.Dimension{Kind: ir.DimensionAbsolute, Value: *d.Value}
	}
	return nil
}
