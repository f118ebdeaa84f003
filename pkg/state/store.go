package state

import (
	"strconv"
	"strings"
	"sync"
)

// Tracer observes store traffic. The resolver installs one to attribute
// reads and writes to the view subtree being resolved; the default is nil
// (no tracing).
type Tracer interface {
	ReadPath(path string)
	WrotePath(path string)
}

// Change describes a single completed write.
type Change struct {
	Path  string
	Value Value
}

// Subscription is a handle for cancelling an observer.
type Subscription struct {
	store *Store
	id    int
}

// Cancel removes the observer. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.store == nil {
		return
	}
	s.store.unsubscribe(s.id)
	s.store = nil
}

type observer struct {
	path string
	fn   func(Change)
}

// Store is a path-addressed mutable value store. Paths are dot-delimited
// strings into nested objects and arrays ("user.name", "items.2.title").
// Unknown paths read as Absent, never an error.
//
// Every mutation runs under one internal lock and marks its path dirty;
// observers whose path intersects the written path are notified
// synchronously after the write completes. Mutating the store from inside
// an observer callback is a programmer error and panics.
type Store struct {
	mu        sync.Mutex
	root      Value
	dirty     map[string]struct{}
	observers map[int]observer
	nextObs   int
	notifying map[uint64]struct{} // goroutines currently delivering notifications

	tracer Tracer
}

// Option configures the Store.
type Option func(*Store)

// WithTracer installs a read/write tracer.
func WithTracer(t Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// New creates a store seeded with the given initial values (nil for an
// empty store).
func New(initial map[string]Value, opts ...Option) *Store {
	root := make(map[string]Value, len(initial))
	for k, v := range initial {
		root[k] = v.Clone()
	}
	s := &Store{
		root:      Object(root),
		dirty:     make(map[string]struct{}),
		observers: make(map[int]observer),
		notifying: make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTracer swaps the tracer after construction. The resolver uses this
// to attach its dependency tracker to a store it did not create.
func (s *Store) SetTracer(t Tracer) {
	s.mu.Lock()
	s.tracer = t
	s.mu.Unlock()
}

// Get returns the value at path, or Absent if nothing is there.
func (s *Store) Get(path string) Value {
	s.mu.Lock()
	tracer := s.tracer
	v := getAt(s.root, splitPath(path))
	s.mu.Unlock()
	if tracer != nil {
		tracer.ReadPath(path)
	}
	return v
}

// Set writes value at path, creating intermediate objects as needed, and
// notifies intersecting observers synchronously.
func (s *Store) Set(path string, value Value) {
	s.mutate(path, func(Value) Value { return value })
}

// Append appends to the array at path. An absent path becomes a
// one-element array; a non-array value is replaced by one.
func (s *Store) Append(path string, value Value) {
	s.mutate(path, func(cur Value) Value {
		arr, _ := cur.AsArray()
		return Array(append(append([]Value(nil), arr...), value)...)
	})
}

// RemoveValue removes every element equal to value from the array at
// path. A non-array path is left unchanged.
func (s *Store) RemoveValue(path string, value Value) {
	s.mutate(path, func(cur Value) Value {
		arr, ok := cur.AsArray()
		if !ok {
			return cur
		}
		kept := make([]Value, 0, len(arr))
		for _, e := range arr {
			if !e.Equal(value) {
				kept = append(kept, e)
			}
		}
		return Array(kept...)
	})
}

// RemoveAt removes the element at index from the array at path.
// Out-of-range indexes are ignored.
func (s *Store) RemoveAt(path string, index int) {
	s.mutate(path, func(cur Value) Value {
		arr, ok := cur.AsArray()
		if !ok || index < 0 || index >= len(arr) {
			return cur
		}
		kept := make([]Value, 0, len(arr)-1)
		kept = append(kept, arr[:index]...)
		kept = append(kept, arr[index+1:]...)
		return Array(kept...)
	})
}

// Toggle adds value to the array at path if absent, removes it if
// present. An absent path becomes a one-element array.
func (s *Store) Toggle(path string, value Value) {
	s.mutate(path, func(cur Value) Value {
		arr, _ := cur.AsArray()
		kept := make([]Value, 0, len(arr))
		found := false
		for _, e := range arr {
			if e.Equal(value) {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			kept = append(kept, value)
		}
		return Array(kept...)
	})
}

func (s *Store) mutate(path string, fn func(cur Value) Value) {
	gid := goroutineID()
	s.mu.Lock()
	if _, busy := s.notifying[gid]; busy {
		s.mu.Unlock()
		panic("state: store mutation from inside an observer callback")
	}
	segs := splitPath(path)
	cur := getAt(s.root, segs)
	next := fn(cur)
	s.root = setAt(s.root, segs, next)
	s.dirty[path] = struct{}{}
	tracer := s.tracer

	// Snapshot intersecting observers while still holding the lock.
	var fire []observer
	for _, obs := range s.observers {
		if PathsIntersect(obs.path, path) {
			fire = append(fire, obs)
		}
	}
	if len(fire) > 0 {
		s.notifying[gid] = struct{}{}
	}
	s.mu.Unlock()

	if tracer != nil {
		tracer.WrotePath(path)
	}

	if len(fire) == 0 {
		return
	}
	defer func() {
		s.mu.Lock()
		delete(s.notifying, gid)
		s.mu.Unlock()
	}()
	change := Change{Path: path, Value: next}
	for _, obs := range fire {
		obs.fn(change)
	}
}

// Observe registers a callback fired after every write whose path
// intersects the given path. The callback runs on the writer's goroutine
// and must not mutate the store.
func (s *Store) Observe(path string, fn func(Change)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = observer{path: path, fn: fn}
	return &Subscription{store: s, id: id}
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

// ConsumeDirtyPaths returns the set of paths written since the last call
// and clears it.
func (s *Store) ConsumeDirtyPaths() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.dirty
	s.dirty = make(map[string]struct{})
	return out
}

// Snapshot returns a deep copy of the entire store contents. The format
// of a persisted snapshot is up to the host; Value marshals as plain
// JSON.
func (s *Store) Snapshot() Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Clone()
}

// Restore replaces the store contents wholesale. Every top-level key is
// marked dirty so a tracked resolver re-resolves affected subtrees.
// Observers are not notified; restore is a host-driven reset, not a UI
// mutation.
func (s *Store) Restore(snapshot Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.notifying[goroutineID()]; busy {
		panic("state: store restore from inside an observer callback")
	}
	obj, ok := snapshot.AsObject()
	if !ok {
		obj = map[string]Value{}
	}
	for k := range obj {
		s.dirty[k] = struct{}{}
	}
	old, _ := s.root.AsObject()
	for k := range old {
		s.dirty[k] = struct{}{}
	}
	s.root = snapshot.Clone()
	if s.root.Kind() != KindObject {
		s.root = Object(nil)
	}
}

// Lookup implements the expression evaluator's value source.
func (s *Store) Lookup(path string) Value {
	return s.Get(path)
}

// splitPath splits a dot-delimited path into segments. An empty path
// yields no segments (the root).
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func getAt(v Value, segs []string) Value {
	cur := v
	for _, seg := range segs {
		switch cur.Kind() {
		case KindObject:
			obj, _ := cur.AsObject()
			next, ok := obj[seg]
			if !ok {
				return Absent()
			}
			cur = next
		case KindArray:
			arr, _ := cur.AsArray()
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(arr) {
				return Absent()
			}
			cur = arr[idx]
		default:
			return Absent()
		}
	}
	return cur
}

// setAt writes value at the segment path inside v, building intermediate
// objects for missing or non-container links, and returns the new root.
func setAt(v Value, segs []string, value Value) Value {
	if len(segs) == 0 {
		return value
	}
	seg, rest := segs[0], segs[1:]

	if arr, ok := v.AsArray(); ok {
		if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 && idx < len(arr) {
			out := append([]Value(nil), arr...)
			out[idx] = setAt(out[idx], rest, value)
			return Array(out...)
		}
	}

	obj, ok := v.AsObject()
	out := make(map[string]Value, len(obj)+1)
	if ok {
		for k, e := range obj {
			out[k] = e
		}
	}
	out[seg] = setAt(out[seg], rest, value)
	return Object(out)
}

// PathsIntersect reports whether two dot paths touch the same data: they
// are equal, or one is a segment-wise prefix of the other. A write to
// "items" intersects a read of "items.2.title" and vice versa, which is
// also how array-derived reads (count, contains) are covered: the
// evaluator reads the array's own path.
func PathsIntersect(a, b string) bool {
	if a == b {
		return true
	}
	as, bs := splitPath(a), splitPath(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
