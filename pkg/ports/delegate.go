package ports

import (
	"context"

	"github.com/scalskit/scals/pkg/ir"
)

// ActionDelegate is the host hook for actions the engine cannot fully
// execute itself: custom kinds without a registered handler, and
// environment actions (dismiss, showAlert, navigate) whose effect lives
// outside the document. Returning ErrNotHandled lets the engine fall
// back to its logged no-op.
type ActionDelegate interface {
	HandleAction(ctx context.Context, def ir.ActionDefinition, params map[string]any) error
}

// ActionDelegateFunc adapts a function to the ActionDelegate port.
type ActionDelegateFunc func(ctx context.Context, def ir.ActionDefinition, params map[string]any) error

func (f ActionDelegateFunc) HandleAction(ctx context.Context, def ir.ActionDefinition, params map[string]any) error {
	return f(ctx, def, params)
}
