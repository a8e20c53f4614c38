package reactive

import (
	"reflect"
	"runtime"
	"sort"
	"sync"
	"weak"
)

// Object is a tracked view over a map[string]any. Reads through Get, Has,
// Keys and Len record dependencies; writes through Set and Delete trigger
// them. Nested maps are wrapped lazily on read.
type Object struct {
	DepMap

	raw map[string]any

	// lists caches the write-through wrappers of []any fields.
	lists map[string]*List
}

// objectCache keeps one *Object per underlying map. Entries are weak so a
// wrapper nobody references can be collected, and a cleanup drops the entry
// once it is. The wrapper holds its map, so a live entry's map address
// cannot be reused.
var objectCache = struct {
	sync.Mutex
	m map[uintptr]weak.Pointer[Object]
}{m: make(map[uintptr]weak.Pointer[Object])}

func wrapMap(m map[string]any) *Object {
	key := reflect.ValueOf(m).Pointer()

	objectCache.Lock()
	defer objectCache.Unlock()

	if wp, ok := objectCache.m[key]; ok {
		if o := wp.Value(); o != nil {
			return o
		}
	}
	o := &Object{raw: m}
	objectCache.m[key] = weak.Make(o)
	runtime.AddCleanup(o, dropCacheEntry, key)
	return o
}

// dropCacheEntry removes the entry for key unless the map address has
// since been wrapped by a live Object.
func dropCacheEntry(key uintptr) {
	objectCache.Lock()
	defer objectCache.Unlock()
	if wp, ok := objectCache.m[key]; ok && wp.Value() == nil {
		delete(objectCache.m, key)
	}
}

// NewObject wraps m. A nil map is replaced by an empty one. Wrapping the
// same map twice returns the same *Object.
func NewObject(m map[string]any) *Object {
	if m == nil {
		m = make(map[string]any)
	}
	return wrapMap(m)
}

// Reactive wraps v when it is an object-like value: map[string]any becomes
// *Object and []any becomes *List. Values that are already reactive are
// returned as-is, and everything else passes through unchanged.
func Reactive(v any) any {
	switch t := v.(type) {
	case *Object, *List:
		return t
	case map[string]any:
		if t == nil {
			return v
		}
		return wrapMap(t)
	case []any:
		return &List{items: t}
	default:
		return v
	}
}

// IsReactive reports whether v is a reactive wrapper.
func IsReactive(v any) bool {
	switch v.(type) {
	case *Object, *List:
		return true
	}
	return false
}

// ToRaw returns the value underneath a reactive wrapper.
func ToRaw(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.raw
	case *List:
		return t.items
	default:
		return v
	}
}

// Get returns the value stored under key, tracking the read. Nested
// map[string]any values come back as *Object and []any values as a *List
// that writes through to this object.
func (o *Object) Get(key string) any {
	Track(o, key)
	return o.Peek(key)
}

// Peek is Get without tracking.
func (o *Object) Peek(key string) any {
	v, ok := o.raw[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return v
		}
		return wrapMap(t)
	case []any:
		if l := o.lists[key]; l != nil {
			return l
		}
		l := &List{items: t, parent: o, field: key}
		if o.lists == nil {
			o.lists = make(map[string]*List)
		}
		o.lists[key] = l
		return l
	}
	return v
}

// Set stores v under key. Subscribers of key are triggered only when the
// value changes; adding a new key also triggers whole-object readers.
// *Object values are stored as their underlying map.
func (o *Object) Set(key string, v any) {
	if obj, ok := v.(*Object); ok {
		v = obj.raw
	}
	old, had := o.raw[key]
	if had && !HasChanged(old, v) {
		return
	}
	o.raw[key] = v
	delete(o.lists, key)
	if had {
		Trigger(o, key)
		return
	}
	TriggerKeys(o, key, IterateKey)
}

// Delete removes key, triggering its readers and whole-object readers if the
// key existed.
func (o *Object) Delete(key string) {
	if _, had := o.raw[key]; !had {
		return
	}
	delete(o.raw, key)
	delete(o.lists, key)
	TriggerKeys(o, key, IterateKey)
}

// Has reports whether key exists, tracking the key.
func (o *Object) Has(key string) bool {
	Track(o, key)
	_, ok := o.raw[key]
	return ok
}

// Keys returns the keys in sorted order, tracking the key set.
func (o *Object) Keys() []string {
	Track(o, IterateKey)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys, tracking the key set.
func (o *Object) Len() int {
	Track(o, IterateKey)
	return len(o.raw)
}

// Range calls fn for every key in sorted order, tracking the key set and
// each value read. Iteration stops when fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	for _, k := range o.Keys() {
		if !fn(k, o.Get(k)) {
			return
		}
	}
}

// Raw returns the underlying map. Mutating it bypasses tracking.
func (o *Object) Raw() map[string]any {
	return o.raw
}

// Assign sets every entry of values, in one batch.
func (o *Object) Assign(values map[string]any) {
	Batch(func() {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.Set(k, values[k])
		}
	})
}
