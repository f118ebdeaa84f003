package resolver

import (
	"sync"

	"github.com/scalskit/scals/pkg/document"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

// UpdateFunc receives the (mutated in place) render tree after an
// incremental pass, plus the IDs of the re-resolved subtree roots.
type UpdateFunc func(tree *ir.Tree, updated []string)

// Instance is a live resolution of one document over one store. All
// ViewNode mutation happens on its internal serial loop; the store
// remains safe to write from any goroutine, and each write nudges the
// loop, which re-resolves exactly the subtrees whose read-sets
// intersect the dirty paths and splices the fresh IR in place.
type Instance struct {
	resolver *Resolver
	doc      *document.Document
	store    *state.Store
	tracker  *Tracker
	onUpdate UpdateFunc

	tree *ir.Tree
	root *ViewNode

	countMu sync.Mutex
	counts  map[string]int

	sub    *state.Subscription
	signal chan struct{}
	flush  chan chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewInstance performs the initial tracked pass and starts the reactive
// loop. The returned errors are subtree-scoped failures of the initial
// pass; the instance is live either way.
func (r *Resolver) NewInstance(doc *document.Document, store *state.Store, onUpdate UpdateFunc) (*Instance, []error) {
	inst := &Instance{
		resolver: r,
		doc:      doc,
		store:    store,
		tracker:  NewTracker(),
		onUpdate: onUpdate,
		counts:   make(map[string]int),
		signal:   make(chan struct{}, 1),
		flush:    make(chan chan struct{}),
		done:     make(chan struct{}),
	}
	store.SetTracer(inst.tracker)

	// Seed writes that predate the instance are not UI changes. The
	// observer registers before the initial pass so nothing written from
	// here on can slip between dirty marking and signalling.
	store.ConsumeDirtyPaths()

	inst.sub = store.Observe("", func(state.Change) {
		select {
		case inst.signal <- struct{}{}:
		default:
		}
	})

	tree, root, errs := r.ResolveTracked(doc, store, inst.tracker, inst.counts)
	inst.tree = tree
	inst.root = root

	// Drain anything written while the initial pass ran.
	select {
	case inst.signal <- struct{}{}:
	default:
	}

	inst.wg.Add(1)
	go inst.loop()
	return inst, errs
}

// Tree returns the current render tree. The tree is mutated in place by
// incremental passes; callers that need a stable view should consume it
// inside the update callback.
func (i *Instance) Tree() *ir.Tree { return i.tree }

// ResolutionCount reports how many times the node with the given
// document ID has been resolved since the instance started.
func (i *Instance) ResolutionCount(id string) int {
	i.countMu.Lock()
	defer i.countMu.Unlock()
	return i.counts[id]
}

// Flush synchronously processes any pending dirty paths. Tests and
// hosts that need a settled tree call this instead of sleeping.
func (i *Instance) Flush() {
	ack := make(chan struct{})
	select {
	case i.flush <- ack:
		<-ack
	case <-i.done:
	}
}

// Close stops the reactive loop and detaches from the store.
func (i *Instance) Close() {
	i.once.Do(func() {
		i.sub.Cancel()
		i.store.SetTracer(nil)
		close(i.done)
		i.wg.Wait()
	})
}

func (i *Instance) loop() {
	defer i.wg.Done()
	for {
		select {
		case <-i.done:
			return
		case <-i.signal:
			i.process()
		case ack := <-i.flush:
			i.process()
			close(ack)
		}
	}
}

// process drains the dirty set and re-resolves the affected subtrees.
// A node whose ancestor is already affected is skipped: the ancestor's
// re-resolution rebuilds the whole subtree anyway.
func (i *Instance) process() {
	dirty := i.store.ConsumeDirtyPaths()
	if len(dirty) == 0 {
		return
	}

	var affected []*ViewNode
	i.root.Walk(func(vn *ViewNode) bool {
		if vn.ReadsAny(dirty) {
			affected = append(affected, vn)
			return false
		}
		return true
	})
	if len(affected) == 0 {
		return
	}

	updated := make([]string, 0, len(affected))
	for _, vn := range affected {
		id := vn.ID
		if id == "" {
			id = nodeLabel(vn.Doc)
		}
		if err := i.reresolve(vn); err != nil {
			i.resolver.logger.Warn("incremental re-resolution failed, keeping stale subtree",
				"node", id, "err", err)
			continue
		}
		updated = append(updated, id)
	}
	if len(updated) == 0 {
		return
	}

	i.resolver.metrics.SubtreeReresolved(len(updated))
	if i.onUpdate != nil {
		i.onUpdate(i.tree, updated)
	}
}

// reresolve rebuilds one subtree against the scope captured at its
// original resolution and splices the result into the parent's IR slot.
func (i *Instance) reresolve(vn *ViewNode) error {
	rc := &Context{
		Doc:        i.doc,
		Store:      i.store,
		Styles:     NewStyleResolver(i.doc.Styles),
		Eval:       i.resolver.eval,
		Source:     vn.scope,
		Registries: i.resolver.registries,
		Logger:     i.resolver.logger,
		resolver:   i.resolver,
		tracker:    i.tracker,
		tracked:    true,
		counts:     make(map[string]int),
	}

	irn, fresh, err := rc.resolveNode(vn.Doc)
	if err != nil {
		return err
	}
	i.countMu.Lock()
	for id, n := range rc.counts {
		i.counts[id] += n
	}
	i.countMu.Unlock()

	fresh.Parent = vn.Parent
	fresh.attach = vn.attach
	if vn.Parent != nil {
		vn.Parent.replaceChild(vn, fresh)
	} else {
		i.root = fresh
	}
	if fresh.attach != nil {
		fresh.attach(irn)
	}
	vn.Parent = nil
	vn.clear()
	return nil
}
