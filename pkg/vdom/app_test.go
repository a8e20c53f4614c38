package vdom

import (
	"testing"

	"github.com/vango-dev/reactor/pkg/reactive"
)

type renderCounter struct {
	nopObserver
	phases  map[string]int
	flushes []int
}

func (o *renderCounter) ComponentRendered(_, phase string) {
	if o.phases == nil {
		o.phases = make(map[string]int)
	}
	o.phases[phase]++
}

func (o *renderCounter) QueueFlushed(jobs int) {
	o.flushes = append(o.flushes, jobs)
}

func TestAppMountIsIdempotent(t *testing.T) {
	f := newFixture(t)
	app, first := f.mount(counterDef(), nil)
	if second := app.Mount(f.rec, f.container); second != first {
		t.Error("second Mount created a new root instance")
	}
	if got := f.html(); got != "<button>0</button>" {
		t.Errorf("html = %s", got)
	}
	if app.Renderer() == nil || app.Renderer().AppContext() != app.Context() {
		t.Error("renderer not bound to the app context")
	}
}

func TestAppUnmountAndRemount(t *testing.T) {
	f := newFixture(t)
	app, first := f.mount(counterDef(), nil)
	app.Unmount()
	app.Unmount()
	if got := f.html(); got != "" {
		t.Errorf("html after unmount = %s", got)
	}

	second := app.Mount(f.rec, f.container)
	if second == first {
		t.Error("remount reused the unmounted instance")
	}
	if second.UID() <= first.UID() {
		t.Errorf("UIDs not increasing: %d then %d", first.UID(), second.UID())
	}
}

func TestAppObserver(t *testing.T) {
	obs := &renderCounter{}
	q := reactive.NewJobQueue()
	f := newFixture(t)
	app, _ := f.mount(counterDef(), nil, WithObserver(obs), WithJobQueue(q))

	f.click(t)
	app.Flush()

	if obs.phases["mount"] != 1 || obs.phases["update"] != 1 {
		t.Errorf("phases = %v", obs.phases)
	}
	if len(obs.flushes) != 1 || obs.flushes[0] != 1 {
		t.Errorf("flushes = %v", obs.flushes)
	}
}

func TestInstanceSnapshot(t *testing.T) {
	ref := reactive.NewRef("r")
	def := &Definition{
		Name: "Snap",
		State: func() map[string]any {
			return map[string]any{
				"n":    1,
				"ref":  ref,
				"nest": map[string]any{"a": 1},
				"fn":   func() {},
			}
		},
		Render: func(*Context) *VNode { return Div(nil) },
	}
	f := newFixture(t)
	_, inst := f.mount(def, nil)
	snap := inst.Snapshot()

	if snap["n"] != 1 || snap["ref"] != "r" {
		t.Errorf("snapshot = %v", snap)
	}
	if _, ok := snap["nest"].(map[string]any); !ok {
		t.Errorf("nested value not raw: %T", snap["nest"])
	}
	if _, ok := snap["fn"]; ok {
		t.Error("function kept in snapshot")
	}
}

func TestCoerceLike(t *testing.T) {
	tests := []struct {
		prev, in, want any
	}{
		{0, float64(3), 3},
		{int64(0), float64(3), int64(3)},
		{0, float64(2.5), float64(2.5)},
		{float32(0), float64(1.5), float32(1.5)},
		{"", "x", "x"},
		{nil, float64(1), float64(1)},
	}
	for _, tt := range tests {
		if got := coerceLike(tt.prev, tt.in); got != tt.want {
			t.Errorf("coerceLike(%#v, %#v) = %#v, want %#v", tt.prev, tt.in, got, tt.want)
		}
	}
}

func TestHandlerName(t *testing.T) {
	for in, want := range map[string]string{
		"click":      "onClick",
		"item-click": "onItemClick",
		"update:x":   "onUpdateX",
	} {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
