package reactive

import "strconv"

// List is a tracked ordered collection. Index reads track the index key,
// Len tracks the length, and Items tracks the whole list.
type List struct {
	DepMap

	items []any

	// parent and field are set when the list wraps a []any field of an
	// Object; mutations are written back so the raw map stays current.
	parent *Object
	field  string
}

// NewList creates a list holding items.
func NewList(items ...any) *List {
	return &List{items: items}
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}

func (l *List) sync() {
	if l.parent != nil {
		l.parent.raw[l.field] = l.items
	}
}

func wrapItem(v any) any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return wrapMap(m)
	}
	return v
}

// Len returns the number of items, tracking the length.
func (l *List) Len() int {
	Track(l, LengthKey)
	return len(l.items)
}

// Get returns item i (nil when out of range), tracking the index. Map items
// come back as *Object.
func (l *List) Get(i int) any {
	Track(l, indexKey(i))
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return wrapItem(l.items[i])
}

// Items returns a copy of the items, tracking the whole list.
func (l *List) Items() []any {
	Track(l, IterateKey)
	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = wrapItem(v)
	}
	return out
}

// Raw returns the underlying slice. Mutating it bypasses tracking.
func (l *List) Raw() []any {
	return l.items
}

// Set replaces item i. Out-of-range indexes are ignored.
func (l *List) Set(i int, v any) {
	if i < 0 || i >= len(l.items) {
		return
	}
	v = ToRaw(v)
	if !HasChanged(l.items[i], v) {
		return
	}
	l.items[i] = v
	l.sync()
	TriggerKeys(l, indexKey(i), IterateKey)
}

// Append adds items to the end.
func (l *List) Append(values ...any) {
	if len(values) == 0 {
		return
	}
	start := len(l.items)
	for _, v := range values {
		l.items = append(l.items, ToRaw(v))
	}
	l.sync()

	keys := []string{LengthKey, IterateKey}
	for i := start; i < len(l.items); i++ {
		keys = append(keys, indexKey(i))
	}
	TriggerKeys(l, keys...)
}

// Insert places v at index i, shifting later items right. i is clamped to
// the valid range.
func (l *List) Insert(i int, v any) {
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = ToRaw(v)
	l.sync()
	l.triggerFrom(i)
}

// Remove deletes item i, shifting later items left, and returns it.
func (l *List) Remove(i int) any {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.sync()
	l.triggerFrom(i)
	return wrapItem(removed)
}

// Swap exchanges items i and j.
func (l *List) Swap(i, j int) {
	if i == j || i < 0 || j < 0 || i >= len(l.items) || j >= len(l.items) {
		return
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	l.sync()
	TriggerKeys(l, indexKey(i), indexKey(j), IterateKey)
}

// Replace swaps in a new item slice.
func (l *List) Replace(items []any) {
	old := len(l.items)
	l.items = append(l.items[:0:0], items...)
	l.sync()
	n := max(old, len(l.items))
	keys := []string{LengthKey, IterateKey}
	for i := 0; i < n; i++ {
		keys = append(keys, indexKey(i))
	}
	TriggerKeys(l, keys...)
}

// triggerFrom notifies readers of every index from i (up to the longer of
// the old and new lengths) plus length and whole-list readers.
func (l *List) triggerFrom(i int) {
	keys := []string{LengthKey, IterateKey}
	for j := i; j <= len(l.items); j++ {
		keys = append(keys, indexKey(j))
	}
	TriggerKeys(l, keys...)
}
