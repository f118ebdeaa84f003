package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals/internal/resolver"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

func newInstance(t *testing.T, raw string, onUpdate resolver.UpdateFunc) (*resolver.Instance, *state.Store) {
	t.Helper()
	doc := mustDecode(t, raw)
	store := state.New(state.SeedFromAny(doc.State))
	r := resolver.New(resolver.DefaultRegistries())
	inst, errs := r.NewInstance(doc, store, onUpdate)
	require.Empty(t, errs)
	t.Cleanup(inst.Close)
	return inst, store
}

const counterDoc = `{
	"version": "1.0.0",
	"state": {"count": 0, "label": "static"},
	"root": {
		"kind": "container", "id": "root",
		"children": [
			{"kind": "text", "id": "counter", "content": "${count}"},
			{"kind": "text", "id": "bystander", "content": "${label}"}
		]
	}
}`

func findText(t *testing.T, tree *ir.Tree, id string) *ir.Text {
	t.Helper()
	root, ok := tree.Root.(*ir.Container)
	require.True(t, ok)
	for _, c := range root.Children {
		if c.NodeID() == id {
			text, ok := c.(*ir.Text)
			require.True(t, ok)
			return text
		}
	}
	t.Fatalf("no text node %q", id)
	return nil
}

func TestInstance_ScopedReResolution(t *testing.T) {
	inst, store := newInstance(t, counterDoc, nil)

	assert.Equal(t, 1, inst.ResolutionCount("counter"))
	assert.Equal(t, 1, inst.ResolutionCount("bystander"))

	store.Set("count", state.Int(7))
	inst.Flush()

	// Only the reader of "count" re-resolves; the sibling and the
	// container are untouched.
	assert.Equal(t, 2, inst.ResolutionCount("counter"))
	assert.Equal(t, 1, inst.ResolutionCount("bystander"))
	assert.Equal(t, 1, inst.ResolutionCount("root"))

	assert.Equal(t, "7", findText(t, inst.Tree(), "counter").Content)
	assert.Equal(t, "static", findText(t, inst.Tree(), "bystander").Content)
}

func TestInstance_UnrelatedWriteResolvesNothing(t *testing.T) {
	var updates int
	inst, store := newInstance(t, counterDoc, func(tree *ir.Tree, updated []string) {
		updates += len(updated)
	})

	store.Set("orphan.path", state.String("noise"))
	inst.Flush()

	assert.Zero(t, updates)
	assert.Equal(t, 1, inst.ResolutionCount("counter"))
}

func TestInstance_UpdateCallback(t *testing.T) {
	var got []string
	inst, store := newInstance(t, counterDoc, func(tree *ir.Tree, updated []string) {
		got = append(got, updated...)
	})

	store.Set("count", state.Int(1))
	inst.Flush()
	store.Set("count", state.Int(2))
	inst.Flush()

	assert.Equal(t, []string{"counter", "counter"}, got)
	assert.Equal(t, "2", findText(t, inst.Tree(), "counter").Content)
}

func TestInstance_AncestorSubsumesDescendant(t *testing.T) {
	// The repeater reads "todos"; its instances read item-scoped
	// bindings. Rewriting the array re-resolves the repeater once and
	// rebuilds the instances inside it, never double-resolving.
	inst, store := newInstance(t, `{
		"version": "1.0.0",
		"state": {"todos": [{"title": "a"}]},
		"root": {
			"kind": "repeater", "id": "list", "items": "todos", "itemVar": "todo",
			"template": {"kind": "text", "content": "${todo.title}"}
		}
	}`, nil)

	require.Equal(t, 1, inst.ResolutionCount("list"))

	store.Append("todos", state.Object(map[string]state.Value{"title": state.String("b")}))
	inst.Flush()

	assert.Equal(t, 2, inst.ResolutionCount("list"))
	wrap := inst.Tree().Root.(*ir.Container)
	require.Len(t, wrap.Children, 2)
	assert.Equal(t, "b", wrap.Children[1].(*ir.Text).Content)
}

func TestInstance_ArrayDerivedReadsCovered(t *testing.T) {
	// A count accessor reads the array's own path, so array mutations
	// re-resolve the reader even though no element path matches exactly.
	inst, store := newInstance(t, `{
		"version": "1.0.0",
		"state": {"items": ["x"]},
		"root": {
			"kind": "container", "id": "root",
			"children": [{"kind": "text", "id": "badge", "content": "${items.count}"}]
		}
	}`, nil)

	assert.Equal(t, "1", findText(t, inst.Tree(), "badge").Content)

	store.Append("items", state.String("y"))
	inst.Flush()

	assert.Equal(t, "2", findText(t, inst.Tree(), "badge").Content)
	assert.Equal(t, 2, inst.ResolutionCount("badge"))
}

func TestInstance_BackgroundWrite(t *testing.T) {
	inst, store := newInstance(t, counterDoc, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Set("count", state.Int(42))
	}()
	<-done
	inst.Flush()

	assert.Equal(t, "42", findText(t, inst.Tree(), "counter").Content)
}

func TestTracker_StackDiscipline(t *testing.T) {
	tr := resolver.NewTracker()

	// No open bracket: traffic is ignored, not misattributed.
	tr.ReadPath("stray")

	tr.Begin()
	tr.ReadPath("outer")
	tr.Begin()
	tr.ReadPath("inner")
	innerReads, _ := tr.End()
	tr.WrotePath("outer.write")
	outerReads, outerWrites := tr.End()

	assert.Contains(t, innerReads, "inner")
	assert.NotContains(t, outerReads, "inner", "nested reads do not propagate upward")
	assert.Contains(t, outerReads, "outer")
	assert.Contains(t, outerWrites, "outer.write")
	assert.Zero(t, tr.Depth())
}

func TestInstance_WriteDuringInitialPassIsApplied(t *testing.T) {
	// A component that seeds state as a side effect of its first
	// resolution: the write lands while the initial pass is still
	// running, and readers of that path must settle without any
	// further write arriving.
	reg := resolver.DefaultRegistries()
	reg.RegisterComponent("boot", func(rc *resolver.Context, n *document.Node) (ir.Node, error) {
		if rc.Store.Get("phase").IsAbsent() {
			rc.Store.Set("phase", state.String("ready"))
		}
		return &ir.Custom{Meta: ir.Meta{Kind: ir.KindCustom, ID: n.ID}, Name: "boot"}, nil
	})

	doc := mustDecode(t, `{
		"version": "1.0.0",
		"root": {
			"kind": "container", "id": "root",
			"children": [
				{"kind": "boot", "id": "init"},
				{"kind": "text", "id": "status", "content": "${phase}"}
			]
		}
	}`)
	store := state.New(state.SeedFromAny(doc.State))
	inst, errs := resolver.New(reg).NewInstance(doc, store, nil)
	require.Empty(t, errs)
	t.Cleanup(inst.Close)

	inst.Flush()
	assert.Equal(t, "ready", findText(t, inst.Tree(), "status").Content)
}
