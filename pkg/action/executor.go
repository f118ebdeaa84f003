package action

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scalskit/scals/pkg/expr"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/observability"
	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/state"
)

// ErrUnknownAction is returned when an actionRef names nothing in the
// document's action table.
var ErrUnknownAction = errors.New("action: unknown action reference")

// Executor runs resolved actions against a state store. Execution is
// asynchronous; each invocation gets an opaque request ID that scopes
// best-effort cancellation. Cancellation suppresses future effects of
// the request but never undoes state already written.
type Executor struct {
	store    *state.Store
	registry *Registry
	delegate ports.ActionDelegate
	eval     *expr.Evaluator
	logger   *slog.Logger
	metrics  *observability.Metrics

	session string
	actions map[string]*ir.ActionDefinition

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRegistry sets the handler registry.
func WithRegistry(r *Registry) ExecutorOption {
	return func(e *Executor) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithDelegate sets the host fallback for unhandled actions.
func WithDelegate(d ports.ActionDelegate) ExecutorOption {
	return func(e *Executor) { e.delegate = d }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches dispatch metrics.
func WithMetrics(m *observability.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithSessionID scopes request IDs to an engine session.
func WithSessionID(id string) ExecutorOption {
	return func(e *Executor) { e.session = id }
}

// WithNamedActions installs the document's resolved action table for
// ExecuteRef.
func WithNamedActions(actions map[string]*ir.ActionDefinition) ExecutorOption {
	return func(e *Executor) { e.actions = actions }
}

// NewExecutor creates an Executor over the given store.
func NewExecutor(store *state.Store, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:    store,
		registry: NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		inflight: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.eval = expr.New(
		expr.WithLogger(e.logger),
		expr.WithMissFunc(e.metrics.ExpressionMiss),
	)
	return e
}

// Execute runs def asynchronously and returns its request ID. Failures
// are logged and counted; they never propagate to the trigger site,
// since a tapped button has no meaningful error channel.
func (e *Executor) Execute(ctx context.Context, def ir.ActionDefinition) string {
	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.inflight[id] = cancel
	e.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			e.mu.Lock()
			delete(e.inflight, id)
			e.mu.Unlock()
		}()
		err := e.run(runCtx, id, def)
		e.metrics.ActionDispatched(kindLabel(def), err == nil)
		if err != nil {
			e.logger.Error("action failed", "kind", kindLabel(def), "request_id", id, "err", err)
		}
	}()
	return id
}

// ExecuteSync runs def on the calling goroutine and returns its error.
func (e *Executor) ExecuteSync(ctx context.Context, def ir.ActionDefinition) error {
	id := uuid.NewString()
	err := e.run(ctx, id, def)
	e.metrics.ActionDispatched(kindLabel(def), err == nil)
	return err
}

// ExecuteRef runs the named action from the document table.
func (e *Executor) ExecuteRef(ctx context.Context, name string) (string, error) {
	def, ok := e.actions[name]
	if !ok {
		return "", ErrUnknownAction
	}
	return e.Execute(ctx, *def), nil
}

// Cancel requests best-effort cancellation of an in-flight request. It
// reports whether the request was still running.
func (e *Executor) Cancel(requestID string) bool {
	e.mu.Lock()
	cancel, ok := e.inflight[requestID]
	e.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

func (e *Executor) run(ctx context.Context, requestID string, def ir.ActionDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Sequences resolve each step lazily, just before it runs, so a
	// step's parameters see state written by earlier steps.
	if def.Kind == ir.ActionSequence {
		for _, step := range def.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.run(ctx, requestID, step); err != nil {
				return err
			}
		}
		return nil
	}

	inv := &Invocation{
		RequestID: requestID,
		SessionID: e.session,
		Def:       def,
		Params:    e.evalParams(def.Params),
		State:     e.store,
	}

	if h, ok := e.registry.Handler(def); ok {
		return h(ctx, inv)
	}

	switch def.Kind {
	case ir.ActionSetState:
		var p SetStateParams
		if err := DecodeParams(inv.Params, &p); err != nil {
			return err
		}
		e.store.Set(p.Path, state.FromAny(p.Value))
		return nil

	case ir.ActionToggleState:
		var p ToggleStateParams
		if err := DecodeParams(inv.Params, &p); err != nil {
			return err
		}
		cur := e.store.Get(p.Path)
		e.store.Set(p.Path, state.Bool(!cur.Truthy()))
		return nil
	}

	// Environment actions and unhandled customs go to the host, then
	// degrade to a logged no-op.
	if e.delegate != nil {
		err := e.delegate.HandleAction(ctx, def, inv.Params)
		if err == nil || !errors.Is(err, ports.ErrNotHandled) {
			return err
		}
	}
	e.logger.Info("no handler for action", "kind", kindLabel(def), "request_id", requestID)
	return nil
}

// evalParams evaluates embedded expressions in a parameter bag,
// recursing through nested maps and lists. Non-string leaves pass
// through untouched.
func (e *Executor) evalParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = e.evalValue(v)
	}
	return out
}

func (e *Executor) evalValue(v any) any {
	switch t := v.(type) {
	case string:
		if !expr.ContainsExpression(t) {
			return t
		}
		return e.eval.EvaluateOrInterpolate(t, e.store).ToAny()
	case map[string]any:
		return e.evalParams(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = e.evalValue(item)
		}
		return out
	}
	return v
}

func kindLabel(def ir.ActionDefinition) string {
	if def.Kind == ir.ActionCustom {
		return def.Name
	}
	return string(def.Kind)
}
