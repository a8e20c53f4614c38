package reactive

import (
	"math"
	"reflect"
)

// HasChanged reports whether writing next over prev is an observable change.
// Comparable values use ==, NaN equals NaN, maps and slices compare by
// identity, and functions always count as changed.
func HasChanged(prev, next any) bool {
	if prev == nil || next == nil {
		return prev != nil || next != nil
	}
	tp, tn := reflect.TypeOf(prev), reflect.TypeOf(next)
	if tp != tn {
		return true
	}

	switch tp.Kind() {
	case reflect.Func:
		return true
	case reflect.Map:
		return reflect.ValueOf(prev).UnsafePointer() != reflect.ValueOf(next).UnsafePointer()
	case reflect.Slice:
		pv, nv := reflect.ValueOf(prev), reflect.ValueOf(next)
		return pv.Len() != nv.Len() || pv.UnsafePointer() != nv.UnsafePointer()
	case reflect.Float32, reflect.Float64:
		pf, nf := reflect.ValueOf(prev).Float(), reflect.ValueOf(next).Float()
		if math.IsNaN(pf) && math.IsNaN(nf) {
			return false
		}
		return pf != nf
	}

	if tp.Comparable() {
		return safeNotEqual(prev, next)
	}
	return !reflect.DeepEqual(prev, next)
}

// safeNotEqual compares with != and falls back to reflect.DeepEqual when
// the comparison panics (a struct holding an uncomparable interface value).
func safeNotEqual(prev, next any) (changed bool) {
	defer func() {
		if recover() != nil {
			changed = !reflect.DeepEqual(prev, next)
		}
	}()
	return prev != next
}
