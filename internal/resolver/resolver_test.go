package resolver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals/internal/resolver"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/observability"
	"github.com/scalskit/scals/pkg/state"
)

func mustDecode(t *testing.T, raw string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestResolve_BasicTree(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"styles": {
			"title": {"fontSize": 22, "foregroundColor": "#111"}
		},
		"state": {"user": {"name": "Ada"}},
		"root": {
			"kind": "container", "id": "root", "axis": "vertical", "spacing": 8,
			"children": [
				{"kind": "text", "id": "greeting", "style": "title", "content": "Hello, ${user.name}!"},
				{"kind": "button", "id": "cta", "content": "Tap", "action": {"type": "dismiss"}},
				{"kind": "spacer"}
			]
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))

	r := resolver.New(resolver.DefaultRegistries())
	tree, errs := r.Resolve(doc, store)
	require.Empty(t, errs)

	root, ok := tree.Root.(*ir.Container)
	require.True(t, ok)
	assert.Equal(t, "vertical", root.Axis)
	assert.Equal(t, 8.0, root.Spacing)
	require.Len(t, root.Children, 3)

	text := root.Children[0].(*ir.Text)
	assert.Equal(t, "Hello, Ada!", text.Content)
	assert.Equal(t, 22.0, text.Style.FontSize)

	btn := root.Children[1].(*ir.Button)
	assert.Equal(t, "Tap", btn.Title)
	require.NotNil(t, btn.Action)
	assert.Equal(t, ir.ActionDismiss, btn.Action.Kind)

	assert.Equal(t, ir.KindSpacer, root.Children[2].NodeKind())
}

func TestResolve_Idempotent(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"state": {"items": ["a", "b"], "count": 2},
		"root": {
			"kind": "container", "id": "root",
			"children": [
				{"kind": "text", "content": "${count} items"},
				{"kind": "repeater", "items": "items", "itemVar": "it",
				 "template": {"kind": "text", "content": "${it}"}}
			]
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))
	r := resolver.New(resolver.DefaultRegistries())

	first, errs := r.Resolve(doc, store)
	require.Empty(t, errs)
	second, errs := r.Resolve(doc, store)
	require.Empty(t, errs)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestResolve_UnknownKindIsScoped(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"root": {
			"kind": "container", "id": "root",
			"children": [
				{"kind": "holoDeck", "id": "mystery"},
				{"kind": "text", "id": "survivor", "content": "still here"}
			]
		}
	}`)
	store := state.New(nil)
	r := resolver.New(resolver.DefaultRegistries())

	tree, errs := r.Resolve(doc, store)
	require.Len(t, errs, 1)
	var unknown *resolver.UnknownKindError
	require.ErrorAs(t, errs[0], &unknown)
	assert.Equal(t, "holoDeck", unknown.Kind)

	// The failure is scoped to the subtree; the sibling still resolves.
	root := tree.Root.(*ir.Container)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "survivor", root.Children[0].NodeID())
}

func TestResolve_CustomComponent(t *testing.T) {
	reg := resolver.DefaultRegistries()
	reg.RegisterComponent("badge", func(rc *resolver.Context, n *document.Node) (ir.Node, error) {
		box, err := rc.ResolveBox(n)
		if err != nil {
			return nil, err
		}
		return &ir.Custom{
			Meta:  ir.Meta{Kind: ir.KindCustom, ID: n.ID},
			Box:   box,
			Name:  "badge",
			Props: n.Props,
		}, nil
	})

	doc := mustDecode(t, `{
		"version": "1.0.0",
		"root": {"kind": "badge", "id": "b1", "props": {"level": "gold"}}
	}`)
	store := state.New(nil)

	tree, errs := resolver.New(reg).Resolve(doc, store)
	require.Empty(t, errs)
	custom := tree.Root.(*ir.Custom)
	assert.Equal(t, "badge", custom.Name)
	assert.Equal(t, "gold", custom.Props["level"])
}

func TestResolve_RepeaterScopes(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"state": {
			"name": "outer",
			"todos": [{"name": "first"}, {"name": "second"}]
		},
		"root": {
			"kind": "repeater", "id": "list", "items": "todos",
			"itemVar": "todo", "indexVar": "i",
			"template": {"kind": "text", "content": "${i}: ${todo.name} (${name})"}
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))

	tree, errs := resolver.New(resolver.DefaultRegistries()).Resolve(doc, store)
	require.Empty(t, errs)

	wrap := tree.Root.(*ir.Container)
	require.Len(t, wrap.Children, 2)
	// The loop variable shadows only inside its instance; unshadowed
	// paths still reach the outer store.
	assert.Equal(t, "0: first (outer)", wrap.Children[0].(*ir.Text).Content)
	assert.Equal(t, "1: second (outer)", wrap.Children[1].(*ir.Text).Content)
}

func TestResolve_RepeaterEmptyState(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"state": {"todos": []},
		"root": {
			"kind": "repeater", "id": "list", "items": "todos",
			"template": {"kind": "text", "content": "${item}"},
			"empty": {"kind": "text", "id": "placeholder", "content": "Nothing yet"}
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))

	tree, errs := resolver.New(resolver.DefaultRegistries()).Resolve(doc, store)
	require.Empty(t, errs)

	wrap := tree.Root.(*ir.Container)
	require.Len(t, wrap.Children, 1)
	assert.Equal(t, "Nothing yet", wrap.Children[0].(*ir.Text).Content)
}

func TestResolve_SectionGrid(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"root": {
			"kind": "section", "id": "gallery",
			"section": {"layout": "grid", "columns": 3, "spacing": 4},
			"children": [
				{"kind": "shape", "props": {"form": "circle"}},
				{"kind": "shape"}
			]
		}
	}`)
	store := state.New(nil)

	tree, errs := resolver.New(resolver.DefaultRegistries()).Resolve(doc, store)
	require.Empty(t, errs)

	section := tree.Root.(*ir.Section)
	assert.Equal(t, "grid", section.Layout)
	assert.Equal(t, 3, section.Columns)
	assert.Equal(t, 4.0, section.Spacing)
	require.Len(t, section.Children, 2)
	assert.Equal(t, "circle", section.Children[0].(*ir.Shape).Form)
	assert.Equal(t, "rectangle", section.Children[1].(*ir.Shape).Form)
}

func TestResolve_TwoWayBoundPrimitives(t *testing.T) {
	doc := mustDecode(t, `{
		"version": "1.0.0",
		"state": {"query": "", "dark": true, "volume": 0.3},
		"root": {
			"kind": "container",
			"children": [
				{"kind": "textField", "bind": "query", "props": {"placeholder": "Search"}},
				{"kind": "toggle", "bind": "dark", "content": "Dark mode"},
				{"kind": "slider", "bind": "volume", "props": {"min": 0, "max": 1, "step": 0.1}}
			]
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))

	tree, errs := resolver.New(resolver.DefaultRegistries()).Resolve(doc, store)
	require.Empty(t, errs)

	root := tree.Root.(*ir.Container)
	field := root.Children[0].(*ir.TextField)
	assert.Equal(t, "query", field.Bind)
	assert.Equal(t, "Search", field.Placeholder)

	toggle := root.Children[1].(*ir.Toggle)
	assert.Equal(t, "dark", toggle.Bind)
	assert.Equal(t, "Dark mode", toggle.Label)

	slider := root.Children[2].(*ir.Slider)
	assert.Equal(t, 1.0, slider.Max)
	assert.Equal(t, 0.1, slider.Step)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.NotEmpty(t, mf.GetMetric())
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestResolve_ExpressionMissesAreCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.New(reg)

	doc := mustDecode(t, `{
		"version": "1.0.0",
		"state": {"count": 1},
		"root": {
			"kind": "container",
			"children": [
				{"kind": "text", "content": "${count} + 1 + 2"},
				{"kind": "text", "content": "${count}"}
			]
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))

	r := resolver.New(resolver.DefaultRegistries(), resolver.WithMetrics(m))
	_, errs := r.Resolve(doc, store)
	require.Empty(t, errs)

	assert.Equal(t, 1.0, counterValue(t, reg, "scals_expression_misses_total"))
}
