package reactive

// Computed is a lazily cached derivation. Its getter runs inside an effect
// whose scheduler only marks the cache dirty; the getter reruns on the next
// Get after an invalidation, and never while the cache is clean.
//
// Invalidation also triggers the computed's own readers, so a computed that
// reads another computed is marked dirty when the inner one is.
type Computed[T any] struct {
	DepMap

	getter func() T
	value  T
	dirty  bool
	effect *Effect
}

// NewComputed creates a computed value for getter. The getter does not run
// until the first Get.
func NewComputed[T any](getter func() T) *Computed[T] {
	c := &Computed[T]{getter: getter, dirty: true}
	c.effect = NewEffect(func() {
		c.value = c.getter()
	}, Lazy(), WithScheduler(func(*Effect) {
		if !c.dirty {
			c.dirty = true
			Trigger(c, valueKey)
		}
	}))
	c.effect.computed = true
	return c
}

// Get returns the cached value, recomputing it first if dirty, and tracks
// the read.
func (c *Computed[T]) Get() T {
	Track(c, valueKey)
	c.refresh()
	return c.value
}

// Peek returns the value without tracking. It still recomputes when dirty.
func (c *Computed[T]) Peek() T {
	c.refresh()
	return c.value
}

func (c *Computed[T]) refresh() {
	if !c.dirty {
		return
	}
	c.dirty = false
	ok := false
	defer func() {
		if !ok {
			c.dirty = true
		}
	}()
	c.effect.Run()
	ok = true
}

// Dirty reports whether the next Get will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Stop detaches the computed from its dependencies. The last value stays
// cached.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}

// Unwrap implements RefLike.
func (c *Computed[T]) Unwrap() any {
	return c.Get()
}

// SetAny implements RefLike. Computed values are read-only.
func (c *Computed[T]) SetAny(any) bool {
	return false
}
