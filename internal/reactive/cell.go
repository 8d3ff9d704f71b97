// Package reactive provides observable state cells. A Cell holds a value and
// notifies subscribers when it is replaced; a View is its read-only face; a
// Computed derives a value from other views.
package reactive

import (
	"sort"
	"sync"
)

// View is a read-only observable value.
type View[T any] interface {
	Get() T
	// Subscribe registers fn to receive every value published after the
	// call. The returned func removes the subscription.
	Subscribe(fn func(T)) (unsubscribe func())
}

// Cell is a writable observable value. Values are published as whole
// replacements; callers that hold slices or pointers from Get must treat
// them as immutable.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	nextID  int
	subs    map[int]func(T)

	// serializes Set so subscribers observe publications in order
	publish sync.Mutex
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Version increases by one on every Set.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Set stores v and then notifies subscribers in registration order.
// Subscribers run on the caller's goroutine without the value lock held:
// they may Get any cell but must not Set the cell that is notifying them.
func (c *Cell[T]) Set(v T) {
	c.publish.Lock()
	defer c.publish.Unlock()

	c.mu.Lock()
	c.value = v
	c.version++
	subs := c.snapshotSubs()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update replaces the value with fn(current).
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Get()))
}

func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// ReadOnly returns a View that cannot be used to write the cell.
func (c *Cell[T]) ReadOnly() View[T] {
	return readOnly[T]{c: c}
}

func (c *Cell[T]) snapshotSubs() []func(T) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = c.subs[id]
	}
	return out
}

type readOnly[T any] struct {
	c *Cell[T]
}

func (r readOnly[T]) Get() T                      { return r.c.Get() }
func (r readOnly[T]) Subscribe(fn func(T)) func() { return r.c.Subscribe(fn) }
