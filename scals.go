package scals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scalskit/scals/internal/logging"
	"github.com/scalskit/scals/internal/resolver"
	"github.com/scalskit/scals/pkg/action"
	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/observability"
	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/session"
	"github.com/scalskit/scals/pkg/state"
)

// Engine is the high-level entry point for the Scals library. It wires
// the document, state store, resolver, and action executor together and
// provides a simplified API for hosts.
type Engine struct {
	doc      *document.Document
	store    *state.Store
	resolver *resolver.Resolver
	instance *resolver.Instance
	executor *action.Executor

	registries *resolver.Registries
	actionReg  *action.Registry
	renderer   ports.Renderer
	delegate   ports.ActionDelegate
	onUpdate   resolver.UpdateFunc
	logger     *slog.Logger
	metrics    *observability.Metrics
	reactive   bool
	sessionID  string
	overlay    map[string]state.Value

	resolveErrs []error
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRenderer registers the presentation collaborator, invoked with
// the full tree once and again after every incremental update.
func WithRenderer(r ports.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithDelegate registers the host hook for custom and environment
// actions.
func WithDelegate(d ports.ActionDelegate) Option {
	return func(e *Engine) { e.delegate = d }
}

// WithRegistries injects extended component registries. Defaults to the
// built-in set.
func WithRegistries(r *resolver.Registries) Option {
	return func(e *Engine) {
		if r != nil {
			e.registries = r
		}
	}
}

// WithActionRegistry injects action handlers, overriding or extending
// the built-in kinds.
func WithActionRegistry(r *action.Registry) Option {
	return func(e *Engine) { e.actionReg = r }
}

// WithReactivity toggles dependency-tracked incremental re-resolution.
// Enabled by default; disable it for one-shot resolution pipelines.
func WithReactivity(enabled bool) Option {
	return func(e *Engine) { e.reactive = enabled }
}

// WithUpdateHandler registers a callback fired after every incremental
// pass, alongside the renderer.
func WithUpdateHandler(fn resolver.UpdateFunc) Option {
	return func(e *Engine) { e.onUpdate = fn }
}

// WithSessionID scopes action request IDs and snapshots to a session.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// WithState overlays values on top of the document's seed state, for
// example a snapshot restored from a previous session.
func WithState(overlay map[string]state.Value) Option {
	return func(e *Engine) { e.overlay = overlay }
}

// New initializes an Engine over a decoded document. The document is
// validated; the initial resolution pass runs before New returns, so
// Tree is immediately usable. Subtree-scoped resolution failures do not
// fail construction; they are available via ResolutionErrors.
func New(doc *document.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, fmt.Errorf("scals: document is required")
	}
	if issues := document.Validate(doc); len(issues) > 0 {
		return nil, issues
	}

	e := &Engine{
		doc:      doc,
		logger:   logging.NewNop(),
		reactive: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registries == nil {
		e.registries = resolver.DefaultRegistries()
	}

	seed := state.SeedFromAny(doc.State)
	if len(e.overlay) > 0 {
		if seed == nil {
			seed = make(map[string]state.Value, len(e.overlay))
		}
		for k, v := range e.overlay {
			seed[k] = v.Clone()
		}
	}
	e.store = state.New(seed)

	e.resolver = resolver.New(e.registries,
		resolver.WithLogger(e.logger),
		resolver.WithMetrics(e.metrics),
	)

	named := make(map[string]*ir.ActionDefinition, len(doc.Actions))
	for name := range doc.Actions {
		if def, ok := action.ResolveRef(doc, name); ok {
			named[name] = def
		}
	}
	execOpts := []action.ExecutorOption{
		action.WithLogger(e.logger),
		action.WithMetrics(e.metrics),
		action.WithDelegate(e.delegate),
		action.WithNamedActions(named),
		action.WithSessionID(e.sessionID),
	}
	if e.actionReg != nil {
		execOpts = append(execOpts, action.WithRegistry(e.actionReg))
	}
	e.executor = action.NewExecutor(e.store, execOpts...)

	var initial *ir.Tree
	if e.reactive {
		inst, errs := e.resolver.NewInstance(doc, e.store, e.update)
		e.instance = inst
		e.resolveErrs = errs
		initial = inst.Tree()
	} else {
		tree, errs := e.resolver.Resolve(doc, e.store)
		e.resolveErrs = errs
		initial = tree
	}
	for _, err := range e.resolveErrs {
		e.logger.Warn("resolution error", "err", err)
	}

	if e.renderer != nil {
		if err := e.renderer.Render(context.Background(), initial, nil); err != nil {
			e.logger.Warn("initial render failed", "err", err)
		}
	}
	return e, nil
}

func (e *Engine) update(tree *ir.Tree, updated []string) {
	if e.onUpdate != nil {
		e.onUpdate(tree, updated)
	}
	if e.renderer != nil {
		if err := e.renderer.Render(context.Background(), tree, updated); err != nil {
			e.logger.Warn("render failed", "updated", updated, "err", err)
		}
	}
}

// Tree returns the current render tree. In reactive mode it is the
// live, incrementally updated tree; otherwise a fresh pass runs.
func (e *Engine) Tree() *ir.Tree {
	if e.instance != nil {
		return e.instance.Tree()
	}
	tree, _ := e.resolver.Resolve(e.doc, e.store)
	return tree
}

// State returns the engine's state store. It is safe to read and write
// from any goroutine; writes trigger incremental re-resolution in
// reactive mode.
func (e *Engine) State() *state.Store { return e.store }

// Document returns the immutable source document.
func (e *Engine) Document() *document.Document { return e.doc }

// ResolutionErrors returns the subtree-scoped failures of the initial
// pass.
func (e *Engine) ResolutionErrors() []error { return e.resolveErrs }

// Execute runs an inline action definition asynchronously and returns
// its request ID.
func (e *Engine) Execute(ctx context.Context, def ir.ActionDefinition) string {
	return e.executor.Execute(ctx, def)
}

// ExecuteRef runs a named action from the document's action table.
func (e *Engine) ExecuteRef(ctx context.Context, name string) (string, error) {
	return e.executor.ExecuteRef(ctx, name)
}

// CancelAction requests best-effort cancellation of an in-flight
// action request.
func (e *Engine) CancelAction(requestID string) bool {
	return e.executor.Cancel(requestID)
}

// Observe registers a state change callback. The callback runs on the
// writer's goroutine and must not mutate the store.
func (e *Engine) Observe(path string, fn func(state.Change)) *state.Subscription {
	return e.store.Observe(path, fn)
}

// Flush synchronously applies pending state changes to the tree.
// No-op when reactivity is disabled.
func (e *Engine) Flush() {
	if e.instance != nil {
		e.instance.Flush()
	}
}

// Park persists the engine's current state snapshot under its session
// ID for later resumption via Resume. The manager serializes parks and
// resumes of the same session.
func (e *Engine) Park(ctx context.Context, sessions *session.Manager) error {
	if e.sessionID == "" {
		return fmt.Errorf("scals: parking requires a session ID")
	}
	snap, _ := e.store.Snapshot().AsObject()
	return sessions.Save(ctx, e.sessionID, snap)
}

// Resume loads a parked session snapshot and builds an engine with it
// overlaid on the document's seed state. A missing session surfaces the
// store's not-found error.
func Resume(ctx context.Context, sessions *session.Manager, doc *document.Document, sessionID string, opts ...Option) (*Engine, error) {
	snap, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithSessionID(sessionID), WithState(snap))
	return New(doc, opts...)
}

// Close stops the reactive loop. The store stays readable.
func (e *Engine) Close() {
	if e.instance != nil {
		e.instance.Close()
	}
}
