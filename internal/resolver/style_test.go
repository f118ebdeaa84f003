package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals/internal/resolver"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
)

func strptr(s string) *string { return &s }
func fptr(f float64) *float64 { return &f }

func TestStyleResolver_ScalarInheritance(t *testing.T) {
	r := resolver.NewStyleResolver(map[string]*document.Style{
		"base":  {ForegroundColor: strptr("#111"), FontSize: fptr(14)},
		"title": {Inherits: "base", FontSize: fptr(22)},
	})

	rs, err := r.Resolve("title")
	require.NoError(t, err)

	style, _, _ := rs.Materialize()
	assert.Equal(t, "#111", style.ForegroundColor, "absent scalar inherits")
	assert.Equal(t, 22.0, style.FontSize, "present scalar overwrites")
	assert.Equal(t, 1.0, style.Opacity, "opacity defaults concrete")
}

func TestStyleResolver_ShadowClearSentinel(t *testing.T) {
	styles := map[string]*document.Style{
		"card": {
			BackgroundColor: strptr("#fff"),
			CornerRadius:    fptr(12),
			Shadow:          &document.Shadow{Color: strptr("#000"), Radius: fptr(8), X: fptr(0), Y: fptr(4)},
		},
		// Present with every sub-field absent: the clear instruction.
		"flatCard": {Inherits: "card", Shadow: &document.Shadow{}},
		// A later link may reintroduce the property after a clear.
		"raisedFlatCard": {Inherits: "flatCard", Shadow: &document.Shadow{Radius: fptr(2)}},
		// Partial shadows merge sub-field-wise, not wholesale.
		"tintedCard": {Inherits: "card", Shadow: &document.Shadow{Color: strptr("#00f")}},
	}
	r := resolver.NewStyleResolver(styles)

	t.Run("clear removes shadow, siblings persist", func(t *testing.T) {
		rs, err := r.Resolve("flatCard")
		require.NoError(t, err)
		style, _, _ := rs.Materialize()
		assert.Nil(t, style.Shadow)
		assert.Equal(t, "#fff", style.BackgroundColor)
		assert.Equal(t, 12.0, style.CornerRadius)
	})

	t.Run("reintroduction after clear starts fresh", func(t *testing.T) {
		rs, err := r.Resolve("raisedFlatCard")
		require.NoError(t, err)
		style, _, _ := rs.Materialize()
		require.NotNil(t, style.Shadow)
		assert.Equal(t, 2.0, style.Shadow.Radius)
		assert.Empty(t, style.Shadow.Color, "cleared sub-fields do not leak back")
	})

	t.Run("partial shadow merges sub-fields", func(t *testing.T) {
		rs, err := r.Resolve("tintedCard")
		require.NoError(t, err)
		style, _, _ := rs.Materialize()
		require.NotNil(t, style.Shadow)
		assert.Equal(t, "#00f", style.Shadow.Color)
		assert.Equal(t, 8.0, style.Shadow.Radius, "inherited sub-field survives")
	})
}

func TestStyleResolver_PaddingCanonicalization(t *testing.T) {
	t.Run("shorthand equivalence", func(t *testing.T) {
		shorthand := resolver.NewStyleResolver(map[string]*document.Style{
			"a": {Padding: &document.Padding{Horizontal: fptr(16), Vertical: fptr(12)}},
		})
		explicit := resolver.NewStyleResolver(map[string]*document.Style{
			"a": {Padding: &document.Padding{Top: fptr(12), Bottom: fptr(12), Leading: fptr(16), Trailing: fptr(16)}},
		})

		rs1, err := shorthand.Resolve("a")
		require.NoError(t, err)
		rs2, err := explicit.Resolve("a")
		require.NoError(t, err)

		_, p1, _ := rs1.Materialize()
		_, p2, _ := rs2.Materialize()
		assert.Equal(t, p2, p1)
	})

	t.Run("specific edge beats shorthand beats all", func(t *testing.T) {
		r := resolver.NewStyleResolver(map[string]*document.Style{
			"a": {Padding: &document.Padding{All: fptr(8), Horizontal: fptr(16), Top: fptr(4)}},
		})
		rs, err := r.Resolve("a")
		require.NoError(t, err)
		_, p, _ := rs.Materialize()
		assert.Equal(t, ir.EdgeInsets{Top: 4, Bottom: 8, Leading: 16, Trailing: 16}, p)
	})

	t.Run("padding clear sentinel", func(t *testing.T) {
		r := resolver.NewStyleResolver(map[string]*document.Style{
			"padded": {Padding: &document.Padding{All: fptr(20)}},
			"flush":  {Inherits: "padded", Padding: &document.Padding{}},
		})
		rs, err := r.Resolve("flush")
		require.NoError(t, err)
		_, p, _ := rs.Materialize()
		assert.Equal(t, ir.EdgeInsets{}, p)
	})
}

func TestStyleResolver_DimensionsOverwriteWholesale(t *testing.T) {
	r := resolver.NewStyleResolver(map[string]*document.Style{
		"base": {Width: &document.Dimension{Value: fptr(200)}},
		"leaf": {Inherits: "base", Width: &document.Dimension{Fraction: fptr(0.5)}},
	})

	rs, err := r.Resolve("leaf")
	require.NoError(t, err)
	_, _, frame := rs.Materialize()
	require.NotNil(t, frame.Width)
	assert.Equal(t, ir.DimensionFraction, frame.Width.Kind)
	assert.Equal(t, 0.5, frame.Width.Value, "representations never merge")
}

func TestStyleResolver_CycleIsAnError(t *testing.T) {
	r := resolver.NewStyleResolver(map[string]*document.Style{
		"a": {Inherits: "b"},
		"b": {Inherits: "a"},
	})

	_, err := r.Resolve("a")
	var cycle *resolver.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "a", cycle.Style)
}

func TestStyleResolver_DanglingParentBreaksChain(t *testing.T) {
	r := resolver.NewStyleResolver(map[string]*document.Style{
		"leaf": {Inherits: "ghost", FontSize: fptr(10)},
	})

	rs, err := r.Resolve("leaf")
	require.NoError(t, err)
	style, _, _ := rs.Materialize()
	assert.Equal(t, 10.0, style.FontSize)
}

func TestStyleResolver_InlineAndNodePadding(t *testing.T) {
	r := resolver.NewStyleResolver(map[string]*document.Style{
		"base": {ForegroundColor: strptr("#333"), Padding: &document.Padding{All: fptr(8)}},
	})

	rs, err := r.ResolveWithInline("base", &document.Style{ForegroundColor: strptr("#c00")})
	require.NoError(t, err)
	rs.FoldNodePadding(&document.Padding{Top: fptr(24)})

	style, p, _ := rs.Materialize()
	assert.Equal(t, "#c00", style.ForegroundColor, "inline folds as the final style link")
	assert.Equal(t, ir.EdgeInsets{Top: 24, Bottom: 8, Leading: 8, Trailing: 8}, p)
}
