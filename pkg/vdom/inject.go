package vdom

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/reactor/internal/errors"
)

// Provide makes value injectable under key by the component whose setup is
// running and its descendants. Outside setup it logs a warning and does
// nothing.
func Provide(key, value any) {
	inst := currentInstance()
	if inst == nil {
		errors.New("R102").WithDetailf("key %v", key).Log(slog.Default())
		return
	}
	inst.provide(key, value)
}

// Inject returns the value provided under key by the nearest instance on
// the chain from the current instance up to the root, then by the app.
// Outside setup, or when nothing provides key, it returns def.
func Inject(key, def any) any {
	inst := currentInstance()
	if inst == nil {
		errors.New("R103").WithDetailf("key %v", key).Log(slog.Default())
		return def
	}
	return inst.inject(key, def)
}

// InjectAs is Inject with a typed result. A provided value of another
// type yields def.
func InjectAs[T any](key any, def T) T {
	v, ok := Inject(key, def).(T)
	if !ok {
		return def
	}
	return v
}

func (i *Instance) provide(key, value any) {
	if i.provides == nil {
		i.provides = make(map[any]any)
	}
	i.provides[key] = value
}

func (i *Instance) inject(key, def any) any {
	for p := i; p != nil; p = p.parent {
		if v, ok := p.provides[key]; ok {
			return v
		}
	}
	if v, ok := i.app.provides[key]; ok {
		return v
	}
	i.diag(errors.New("R105").WithDetail(fmt.Sprint(key)))
	return def
}
