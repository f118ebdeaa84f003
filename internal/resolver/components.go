package resolver

import (
	"fmt"

	"github.com/scalskit/scals/pkg/action"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

// registerBuiltins installs the resolvers for every built-in kind, the
// three container axes, and the three section layouts.
func registerBuiltins(r *Registries) {
	r.RegisterComponent(document.KindContainer, resolveContainer)
	r.RegisterComponent(document.KindText, resolveText)
	r.RegisterComponent(document.KindButton, resolveButton)
	r.RegisterComponent(document.KindImage, resolveImage)
	r.RegisterComponent(document.KindTextField, resolveTextField)
	r.RegisterComponent(document.KindToggle, resolveToggle)
	r.RegisterComponent(document.KindSlider, resolveSlider)
	r.RegisterComponent(document.KindSpacer, resolveSpacer)
	r.RegisterComponent(document.KindDivider, resolveDivider)
	r.RegisterComponent(document.KindGradient, resolveGradient)
	r.RegisterComponent(document.KindShape, resolveShape)
	r.RegisterComponent(document.KindPageIndicator, resolvePageIndicator)
	r.RegisterComponent(document.KindSection, resolveSection)
	r.RegisterComponent(document.KindRepeater, resolveRepeater)

	for _, axis := range []string{"vertical", "horizontal", "stack"} {
		r.RegisterLayout(axis, axisLayout(axis))
	}
	for _, layout := range []string{"list", "grid", "flow"} {
		r.RegisterSection(layout, sectionLayout(layout))
	}
}

func meta(kind ir.Kind, n *document.Node) ir.Meta {
	return ir.Meta{Kind: kind, ID: n.ID}
}

func resolveContainer(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	axis := n.Axis
	if axis == "" {
		axis = "vertical"
	}
	layout, ok := rc.Registries.Layout(axis)
	if !ok {
		return nil, fmt.Errorf("container %s: no layout registered for axis %q", nodeLabel(n), axis)
	}
	children := rc.ResolveChildren(n.Children)
	return layout(rc, n, box, children)
}

// axisLayout is the built-in container arrangement: a single axis with
// uniform spacing and two-axis alignment.
func axisLayout(axis string) LayoutFunc {
	return func(rc *Context, n *document.Node, box ir.Box, children []ir.Node) (ir.Node, error) {
		return &ir.Container{
			Meta:      meta(ir.KindContainer, n),
			Box:       box,
			Axis:      axis,
			Spacing:   floatOrZero(n.Spacing),
			Alignment: resolveAlignment(n.Alignment),
			Children:  children,
		}, nil
	}
}

func resolveText(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Text{
		Meta:    meta(ir.KindText, n),
		Box:     box,
		Content: rc.Content(n),
	}, nil
}

func resolveButton(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	btn := &ir.Button{
		Meta:  meta(ir.KindButton, n),
		Box:   box,
		Title: rc.Content(n),
	}
	switch {
	case n.ActionRef != "":
		btn.ActionRef = n.ActionRef
	case n.Action != nil:
		btn.Action = action.ResolveDefinition(n.Action)
	}
	return btn, nil
}

func resolveImage(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Image{
		Meta:        meta(ir.KindImage, n),
		Box:         box,
		URL:         rc.InterpolateString(propString(n, "url", "")),
		ContentMode: propString(n, "contentMode", "fit"),
	}, nil
}

func resolveTextField(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.TextField{
		Meta:        meta(ir.KindTextField, n),
		Box:         box,
		Placeholder: rc.InterpolateString(propString(n, "placeholder", "")),
		Bind:        n.Bind,
	}, nil
}

func resolveToggle(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Toggle{
		Meta:  meta(ir.KindToggle, n),
		Box:   box,
		Label: rc.Content(n),
		Bind:  n.Bind,
	}, nil
}

func resolveSlider(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Slider{
		Meta: meta(ir.KindSlider, n),
		Box:  box,
		Bind: n.Bind,
		Min:  propFloat(n, "min", 0),
		Max:  propFloat(n, "max", 1),
		Step: propFloat(n, "step", 0),
	}, nil
}

func resolveSpacer(rc *Context, n *document.Node) (ir.Node, error) {
	return &ir.Spacer{
		Meta:      meta(ir.KindSpacer, n),
		MinLength: propFloat(n, "minLength", 0),
	}, nil
}

func resolveDivider(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Divider{
		Meta:      meta(ir.KindDivider, n),
		Box:       box,
		Thickness: propFloat(n, "thickness", 1),
	}, nil
}

func resolveGradient(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	g := &ir.Gradient{
		Meta:      meta(ir.KindGradient, n),
		Box:       box,
		Direction: propString(n, "direction", "vertical"),
	}
	raw, _ := n.Props["stops"].([]any)
	for i, item := range raw {
		stop, ok := item.(map[string]any)
		if !ok {
			continue
		}
		color, _ := stop["color"].(string)
		location := anyFloat(stop["location"], float64(i)/max(float64(len(raw)-1), 1))
		g.Stops = append(g.Stops, ir.GradientStop{Color: color, Location: location})
	}
	return g, nil
}

func resolveShape(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	return &ir.Shape{
		Meta: meta(ir.KindShape, n),
		Box:  box,
		Form: propString(n, "form", "rectangle"),
	}, nil
}

func resolvePageIndicator(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	count := propInt(n, "count", 0)
	if count == 0 {
		if src, ok := n.Props["countPath"].(string); ok {
			if c, ok := rc.Source.Lookup(src).AsArray(); ok {
				count = len(c)
			}
		}
	}
	return &ir.PageIndicator{
		Meta:  meta(ir.KindPageIndicator, n),
		Box:   box,
		Count: count,
		Bind:  n.Bind,
	}, nil
}

func resolveSection(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	cfg := n.Section
	if cfg == nil {
		cfg = &document.SectionConfig{Layout: "list"}
	}
	layout, ok := rc.Registries.Section(cfg.Layout)
	if !ok {
		return nil, fmt.Errorf("section %s: no layout registered for %q", nodeLabel(n), cfg.Layout)
	}
	children := rc.ResolveChildren(n.Children)
	return layout(rc, n, box, cfg, children)
}

// sectionLayout is the built-in section arrangement. List and flow
// ignore columns; grid defaults to one column when unset.
func sectionLayout(layout string) SectionFunc {
	return func(rc *Context, n *document.Node, box ir.Box, cfg *document.SectionConfig, children []ir.Node) (ir.Node, error) {
		columns := 0
		if layout == "grid" {
			columns = max(cfg.Columns, 1)
		}
		return &ir.Section{
			Meta:     meta(ir.KindSection, n),
			Box:      box,
			Layout:   layout,
			Columns:  columns,
			Spacing:  floatOrZero(cfg.Spacing),
			Children: children,
		}, nil
	}
}

// resolveRepeater instantiates the template once per array element,
// binding the loop variables in a scope that shadows outer paths for
// just that instance. The instances are wrapped in a container so the
// repeater occupies one slot in its parent.
func resolveRepeater(rc *Context, n *document.Node) (ir.Node, error) {
	box, err := rc.ResolveBox(n)
	if err != nil {
		return nil, err
	}
	axis := n.Axis
	if axis == "" {
		axis = "vertical"
	}
	wrap := &ir.Container{
		Meta:      meta(ir.KindContainer, n),
		Box:       box,
		Axis:      axis,
		Spacing:   floatOrZero(n.Spacing),
		Alignment: resolveAlignment(n.Alignment),
	}

	items, _ := rc.Source.Lookup(n.Items).AsArray()
	if len(items) == 0 {
		if n.Empty != nil {
			wrap.Children = rc.ResolveChildren([]*document.Node{n.Empty})
		}
		return wrap, nil
	}

	itemVar := n.ItemVar
	if itemVar == "" {
		itemVar = "item"
	}

	type resolved struct {
		n  ir.Node
		vn *ViewNode
	}
	var out []resolved
	for i, item := range items {
		vars := map[string]state.Value{itemVar: item}
		if n.IndexVar != "" {
			vars[n.IndexVar] = state.Int(int64(i))
		}
		scope := NewScope(rc.Source, vars)
		irn, vn, err := rc.resolveNodeInScope(n.Template, scope)
		if err != nil {
			rc.AddError(err)
			continue
		}
		out = append(out, resolved{irn, vn})
	}

	wrap.Children = make([]ir.Node, len(out))
	for i, it := range out {
		wrap.Children[i] = it.n
		if it.vn != nil {
			it.vn.attach = slotSetter(wrap.Children, i)
		}
	}
	return wrap, nil
}

func resolveAlignment(a *document.Alignment) ir.Alignment {
	out := ir.Alignment{Horizontal: "center", Vertical: "center"}
	if a == nil {
		return out
	}
	if a.Horizontal != "" {
		out.Horizontal = a.Horizontal
	}
	if a.Vertical != "" {
		out.Vertical = a.Vertical
	}
	return out
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func propString(n *document.Node, key, fallback string) string {
	if s, ok := n.Props[key].(string); ok {
		return s
	}
	return fallback
}

func propFloat(n *document.Node, key string, fallback float64) float64 {
	return anyFloat(n.Props[key], fallback)
}

func propInt(n *document.Node, key string, fallback int) int {
	return int(anyFloat(n.Props[key], float64(fallback)))
}

func anyFloat(v any, fallback float64) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}
	return fallback
}
