package reactive

// Source is anything a Computed can depend on. Every View[T] returned by
// this package satisfies it through Watch.
type Source interface {
	// Watch calls fn after every publication and returns a func that stops
	// watching.
	Watch(fn func()) (stop func())
}

// Watch adapts a View of any type into a Source.
func Watch[T any](v View[T]) Source {
	return watchedView[T]{v: v}
}

type watchedView[T any] struct {
	v View[T]
}

func (w watchedView[T]) Watch(fn func()) func() {
	return w.v.Subscribe(func(T) { fn() })
}

// Computed is a View whose value is recomputed eagerly whenever one of its
// sources publishes.
type Computed[T any] struct {
	cell  *Cell[T]
	fn    func() T
	stops []func()
}

// NewComputed evaluates fn once immediately and again after each source
// publication.
func NewComputed[T any](fn func() T, sources ...Source) *Computed[T] {
	c := &Computed[T]{
		cell: NewCell(fn()),
		fn:   fn,
	}
	for _, src := range sources {
		c.stops = append(c.stops, src.Watch(c.recompute))
	}
	return c
}

func (c *Computed[T]) recompute() {
	c.cell.Set(c.fn())
}

func (c *Computed[T]) Get() T { return c.cell.Get() }

func (c *Computed[T]) Subscribe(fn func(T)) func() { return c.cell.Subscribe(fn) }

// Stop detaches the computed value from its sources. The last value stays
// readable.
func (c *Computed[T]) Stop() {
	for _, stop := range c.stops {
		stop()
	}
	c.stops = nil
}
