package vdom

import (
	"log/slog"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Hook identifies a lifecycle hook.
type Hook uint8

const (
	HookBeforeMount Hook = iota
	HookMounted
	HookBeforeUpdate
	HookUpdated
	HookUnmounted
)

// String returns the string representation of the Hook.
func (h Hook) String() string {
	switch h {
	case HookBeforeMount:
		return "onBeforeMount"
	case HookMounted:
		return "onMounted"
	case HookBeforeUpdate:
		return "onBeforeUpdate"
	case HookUpdated:
		return "onUpdated"
	case HookUnmounted:
		return "onUnmounted"
	}
	return "unknown"
}

// OnBeforeMount registers fn to run before the first render is mounted.
func OnBeforeMount(fn func()) { registerHook(HookBeforeMount, fn) }

// OnMounted registers fn to run after the first render is mounted.
func OnMounted(fn func()) { registerHook(HookMounted, fn) }

// OnBeforeUpdate registers fn to run before each rerender.
func OnBeforeUpdate(fn func()) { registerHook(HookBeforeUpdate, fn) }

// OnUpdated registers fn to run after each rerender is patched.
func OnUpdated(fn func()) { registerHook(HookUpdated, fn) }

// OnUnmounted registers fn to run when the component is unmounted.
func OnUnmounted(fn func()) { registerHook(HookUnmounted, fn) }

func registerHook(h Hook, fn func()) {
	inst := currentInstance()
	if inst == nil {
		errors.New("R104").WithDetail(h.String()).Log(slog.Default())
		return
	}
	inst.addHook(h, fn)
}

func (i *Instance) addHook(h Hook, fn func()) {
	if !i.inSetup {
		i.diag(errors.New("R104").WithDetail(h.String()))
		return
	}
	if fn == nil {
		return
	}
	if i.hooks == nil {
		i.hooks = make(map[Hook][]func())
	}
	i.hooks[h] = append(i.hooks[h], fn)
}

// callHooks runs the hooks in registration order. A panicking hook is
// logged and does not stop the others.
func (i *Instance) callHooks(h Hook) {
	for _, fn := range i.hooks[h] {
		i.callHook(h, fn)
	}
}

func (i *Instance) callHook(h Hook, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			i.diag(errors.New("R106").WithDetailf("%s: %v", h, r))
		}
	}()
	reactive.Untracked(fn)
}
