package resolver

import "sync"

// Tracker attributes state reads and writes to the view subtree being
// resolved. Brackets form a stack: traffic attributes to the innermost
// open bracket only; a nested bracket's reads do not propagate to its
// ancestor's set.
//
// It implements state.Tracer. Traffic arriving while no bracket is open
// (background effects) is ignored.
type Tracker struct {
	mu    sync.Mutex
	stack []*pathSets
}

type pathSets struct {
	reads  map[string]struct{}
	writes map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin opens a bracket.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stack = append(t.stack, &pathSets{
		reads:  make(map[string]struct{}),
		writes: make(map[string]struct{}),
	})
}

// End closes the innermost bracket and returns its sets.
func (t *Tracker) End() (reads, writes map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) == 0 {
		return nil, nil
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return top.reads, top.writes
}

// ReadPath implements state.Tracer.
func (t *Tracker) ReadPath(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) == 0 {
		return
	}
	t.stack[len(t.stack)-1].reads[path] = struct{}{}
}

// WrotePath implements state.Tracer.
func (t *Tracker) WrotePath(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) == 0 {
		return
	}
	t.stack[len(t.stack)-1].writes[path] = struct{}{}
}

// Depth returns the number of open brackets.
func (t *Tracker) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stack)
}
