package reactive

// valueKey is the single key of Ref and Computed targets.
const valueKey = "value"

// RefLike is implemented by single-cell reactive values. Component contexts
// unwrap RefLike state fields on read and write through them on set.
type RefLike interface {
	// Unwrap returns the current value, tracking the read.
	Unwrap() any

	// SetAny writes v if it has the cell's type and the cell is writable.
	SetAny(v any) bool
}

// Ref is a tracked single value.
type Ref[T any] struct {
	DepMap
	value T
}

// NewRef creates a ref holding v.
func NewRef[T any](v T) *Ref[T] {
	return &Ref[T]{value: v}
}

// Get returns the value, tracking the read.
func (r *Ref[T]) Get() T {
	Track(r, valueKey)
	return r.value
}

// Peek returns the value without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// Set stores v and triggers readers if it changed.
func (r *Ref[T]) Set(v T) {
	if !HasChanged(any(r.value), any(v)) {
		return
	}
	r.value = v
	Trigger(r, valueKey)
}

// Update stores fn(current value).
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// Unwrap implements RefLike.
func (r *Ref[T]) Unwrap() any {
	return r.Get()
}

// SetAny implements RefLike.
func (r *Ref[T]) SetAny(v any) bool {
	t, ok := v.(T)
	if !ok {
		return false
	}
	r.Set(t)
	return true
}
