package ports

import (
	"context"

	"github.com/scalskit/scals/pkg/ir"
)

// Renderer consumes resolved render trees. Render is invoked once with
// the full tree and again after every incremental update; updated holds
// the IDs of the re-resolved subtree roots (empty on the initial pass).
//
// The engine hands the renderer an action-execution handle and direct
// store access separately, at construction time, so this port stays a
// pure presentation surface.
type Renderer interface {
	Render(ctx context.Context, tree *ir.Tree, updated []string) error
}

// RendererFunc adapts a function to the Renderer port.
type RendererFunc func(ctx context.Context, tree *ir.Tree, updated []string) error

func (f RendererFunc) Render(ctx context.Context, tree *ir.Tree, updated []string) error {
	return f(ctx, tree, updated)
}
