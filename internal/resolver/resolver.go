package resolver

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/expr"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/observability"
	"github.com/scalskit/scals/pkg/state"
)

// Resolver walks a document tree root→leaves, dispatching each node by
// kind to the registered resolver, and produces the render tree.
type Resolver struct {
	registries *Registries
	eval       *expr.Evaluator
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics attaches lifecycle metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New creates a Resolver over the given registries.
func New(registries *Registries, opts ...Option) *Resolver {
	r := &Resolver{
		registries: registries,
		eval:       expr.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.eval = expr.New(
		expr.WithLogger(r.logger),
		expr.WithMissFunc(r.metrics.ExpressionMiss),
	)
	return r
}

// Context is the per-pass resolution state handed to component
// resolvers. It carries the document, value source (store plus any loop
// scopes), style resolver, and registries by reference.
type Context struct {
	Doc        *document.Document
	Store      *state.Store
	Styles     *StyleResolver
	Eval       *expr.Evaluator
	Source     expr.Source
	Registries *Registries
	Logger     *slog.Logger

	resolver *Resolver
	tracker  *Tracker
	tracked  bool
	curView  *ViewNode
	counts   map[string]int
	errs     []error
}

// Resolve performs a full untracked pass: no ViewNode tree is built and
// no dependencies are recorded. Subtree-scoped failures are collected
// and returned alongside the (still valid) rest of the tree.
func (r *Resolver) Resolve(doc *document.Document, store *state.Store) (*ir.Tree, []error) {
	tree, _, errs := r.resolvePass(doc, store, nil, nil)
	return tree, errs
}

// ResolveTracked performs a full pass while recording per-subtree state
// dependencies into a ViewNode tree. counts, when non-nil, accumulates
// a per-node resolution counter keyed by document node ID.
func (r *Resolver) ResolveTracked(doc *document.Document, store *state.Store, tracker *Tracker, counts map[string]int) (*ir.Tree, *ViewNode, []error) {
	return r.resolvePass(doc, store, tracker, counts)
}

func (r *Resolver) resolvePass(doc *document.Document, store *state.Store, tracker *Tracker, counts map[string]int) (*ir.Tree, *ViewNode, []error) {
	start := time.Now()
	rc := &Context{
		Doc:        doc,
		Store:      store,
		Styles:     NewStyleResolver(doc.Styles),
		Eval:       r.eval,
		Source:     store,
		Registries: r.registries,
		Logger:     r.logger,
		resolver:   r,
		tracker:    tracker,
		tracked:    tracker != nil,
		counts:     counts,
	}

	tree := &ir.Tree{Version: doc.Version}
	root, rootVN, err := rc.resolveNode(doc.Root)
	if err != nil {
		rc.errs = append(rc.errs, err)
	} else {
		tree.Root = root
		if rootVN != nil {
			rootVN.attach = func(n ir.Node) { tree.Root = n }
		}
	}

	r.metrics.ObserveResolvePass(time.Since(start))
	return tree, rootVN, rc.errs
}

// resolveNode dispatches one document node. When tracking, the node's
// body is bracketed so its state traffic attributes to its own
// ViewNode, not an ancestor's.
func (rc *Context) resolveNode(n *document.Node) (ir.Node, *ViewNode, error) {
	comp, ok := rc.Registries.Component(n.Kind)
	if !ok {
		err := &UnknownKindError{Kind: n.Kind, NodeID: n.ID}
		rc.Logger.Warn("skipping unresolvable subtree", "err", err)
		return nil, nil, err
	}

	var vn *ViewNode
	prevView := rc.curView
	if rc.tracked {
		vn = &ViewNode{
			ID:     n.ID,
			Doc:    n,
			Parent: prevView,
			scope:  rc.Source,
		}
		if prevView != nil {
			prevView.Children = append(prevView.Children, vn)
		}
		rc.curView = vn
		rc.tracker.Begin()
	}

	irn, err := comp(rc, n)

	if rc.tracked {
		vn.Reads, vn.Writes = rc.tracker.End()
		rc.curView = prevView
	}
	if err != nil {
		if vn != nil {
			vn.Destroy()
		}
		return nil, nil, err
	}

	if rc.counts != nil && n.ID != "" {
		rc.counts[n.ID]++
	}
	rc.resolver.metrics.NodeResolved(n.Kind)
	return irn, vn, nil
}

// ResolveChildren resolves a node list, skipping (and recording) failed
// subtrees. The returned slice is the one the caller must place into
// its IR node: tracked children splice into it in place during
// incremental re-resolution.
func (rc *Context) ResolveChildren(nodes []*document.Node) []ir.Node {
	type resolved struct {
		n  ir.Node
		vn *ViewNode
	}
	var items []resolved
	for _, child := range nodes {
		irn, vn, err := rc.resolveNode(child)
		if err != nil {
			rc.errs = append(rc.errs, err)
			continue
		}
		items = append(items, resolved{irn, vn})
	}

	out := make([]ir.Node, len(items))
	for i, it := range items {
		out[i] = it.n
		if it.vn != nil {
			it.vn.attach = slotSetter(out, i)
		}
	}
	return out
}

// resolveNodeInScope resolves one node with loop bindings shadowing the
// current source for just that subtree.
func (rc *Context) resolveNodeInScope(n *document.Node, src expr.Source) (ir.Node, *ViewNode, error) {
	prev := rc.Source
	rc.Source = src
	defer func() { rc.Source = prev }()
	return rc.resolveNode(n)
}

// AddError records a subtree-scoped resolution error.
func (rc *Context) AddError(err error) {
	rc.errs = append(rc.errs, err)
}

// ResolveBox folds the node's style chain (named, inline, node padding)
// into the resolved visual attributes.
func (rc *Context) ResolveBox(n *document.Node) (ir.Box, error) {
	rs, err := rc.Styles.ResolveWithInline(n.Style, n.InlineStyle)
	if err != nil {
		return ir.Box{}, err
	}
	rs.FoldNodePadding(n.Padding)
	style, padding, frame := rs.Materialize()
	return ir.Box{Padding: padding, Frame: frame, Style: style}, nil
}

// Content resolves a node's displayable text: a state binding wins,
// then expression/template evaluation, then the literal.
func (rc *Context) Content(n *document.Node) string {
	if n.Bind != "" {
		return rc.Source.Lookup(n.Bind).Display()
	}
	if n.Content == "" {
		return ""
	}
	return rc.Eval.EvaluateOrInterpolate(n.Content, rc.Source).Display()
}

// InterpolateString evaluates ${...} spans inside an arbitrary
// kind-specific string property.
func (rc *Context) InterpolateString(s string) string {
	if !expr.ContainsExpression(s) {
		return s
	}
	return rc.Eval.Interpolate(s, rc.Source)
}

func slotSetter(list []ir.Node, i int) func(ir.Node) {
	return func(n ir.Node) { list[i] = n }
}

func nodeLabel(n *document.Node) string {
	if n.ID != "" {
		return n.ID
	}
	return fmt.Sprintf("<%s>", n.Kind)
}
