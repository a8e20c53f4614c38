package vdom

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func TestCounter(t *testing.T) {
	f := newFixture(t)
	_, inst := f.mount(counterDef(), nil)
	if got := f.html(); got != "<button>0</button>" {
		t.Fatalf("html = %s", got)
	}

	f.click(t)
	f.click(t)

	if got := f.html(); got != "<button>2</button>" {
		t.Errorf("html = %s", got)
	}
	if got := inst.RenderCount(); got != 3 {
		t.Errorf("RenderCount = %d, want 3", got)
	}
	if f.rec.Creations() != 2 {
		t.Errorf("rerenders created nodes: %v", f.rec.Counts())
	}
}

func TestHookOrder(t *testing.T) {
	var got []string
	record := func(s string) func() { return func() { got = append(got, s) } }

	child := &Definition{
		Name: "Child",
		Setup: func(*reactive.Object, *SetupContext) map[string]any {
			OnBeforeMount(record("child beforeMount"))
			OnMounted(record("child mounted"))
			OnBeforeUpdate(record("child beforeUpdate"))
			OnUpdated(record("child updated"))
			OnUnmounted(record("child unmounted"))
			return nil
		},
		Render: func(*Context) *VNode { return Span(nil, "child") },
	}
	parent := &Definition{
		Name:  "Parent",
		State: func() map[string]any { return map[string]any{"n": 0} },
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			sc.OnBeforeMount(record("parent beforeMount"))
			sc.OnMounted(record("parent mounted"))
			sc.OnBeforeUpdate(record("parent beforeUpdate"))
			sc.OnUpdated(record("parent updated"))
			sc.OnUnmounted(record("parent unmounted"))
			return nil
		},
		Render: func(c *Context) *VNode {
			return Div(nil, Component(child, nil, nil), Textf("%d", c.GetInt("n")))
		},
	}

	f := newFixture(t)
	app, inst := f.mount(parent, nil)
	inst.State().Set("n", 1)
	app.Unmount()

	want := []string{
		"parent beforeMount",
		"child beforeMount",
		"child mounted",
		"parent mounted",
		"parent beforeUpdate",
		"parent updated",
		"parent unmounted",
		"child unmounted",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hook order (-want +got):\n%s", diff)
	}
}

func TestHookOutsideSetupIsRejected(t *testing.T) {
	var kept *SetupContext
	def := &Definition{
		Name: "Late",
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			kept = sc
			return nil
		},
		Render: func(*Context) *VNode { return Div(nil) },
	}
	f := newFixture(t)
	f.mount(def, nil)

	kept.OnMounted(func() { t.Error("late hook ran") })
	kept.Provide("late", 1)
	if got := kept.Inject("anything", "def"); got != "def" {
		t.Errorf("late Inject = %v", got)
	}
	for _, code := range []string{"R104", "R102", "R103"} {
		if !strings.Contains(f.logs.String(), code) {
			t.Errorf("%s not logged", code)
		}
	}
}

func TestMountedHookCanRerender(t *testing.T) {
	def := &Definition{
		Name:  "Loader",
		State: func() map[string]any { return map[string]any{"ready": false} },
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			sc.OnMounted(func() { sc.Instance().State().Set("ready", true) })
			return nil
		},
		Render: func(c *Context) *VNode {
			if c.Get("ready") == true {
				return P(nil, "ready")
			}
			return P(nil, "loading")
		},
	}
	f := newFixture(t)
	_, inst := f.mount(def, nil)
	if got := f.html(); got != "<p>ready</p>" {
		t.Errorf("html = %s", got)
	}
	if got := inst.RenderCount(); got != 2 {
		t.Errorf("RenderCount = %d, want 2", got)
	}
}

func TestFallthroughAttrs(t *testing.T) {
	def := &Definition{
		Name:  "Btn",
		Props: map[string]PropOption{"label": {}, "size": {Default: 3}},
		Render: func(c *Context) *VNode {
			return Button(Props{"class": "btn", "style": "color: red"}, c.GetString("label"))
		},
	}
	f := newFixture(t)
	_, inst := f.mount(def, Props{"label": "ok", "class": "wide", "id": "b1", "style": "margin: 0"})

	want := `<button class="btn wide" id="b1" style="color: red; margin: 0">ok</button>`
	if got := f.html(); got != want {
		t.Errorf("html = %s, want %s", got, want)
	}
	if got := inst.Context().GetInt("size"); got != 3 {
		t.Errorf("size default = %d", got)
	}
	if _, ok := inst.Attrs()["label"]; ok {
		t.Error("declared prop leaked into attrs")
	}
	if got := inst.Props().Peek("label"); got != "ok" {
		t.Errorf("label prop = %v", got)
	}
}

func TestFactoryDefaultsArePerInstance(t *testing.T) {
	def := &Definition{
		Name:   "Tags",
		Props:  map[string]PropOption{"tags": {Default: func() any { return map[string]any{} }}},
		Render: func(*Context) *VNode { return Span(nil) },
	}
	a, _ := resolveProps(def, nil)
	b, _ := resolveProps(def, nil)
	a["tags"].(map[string]any)["x"] = 1
	if len(b["tags"].(map[string]any)) != 0 {
		t.Error("default factory result shared between instances")
	}
}

func TestSlots(t *testing.T) {
	card := &Definition{
		Name: "Card",
		Render: func(c *Context) *VNode {
			return Div(Props{"class": "card"}, c.Slot("default"), c.Slot("footer"))
		},
	}
	root := &Definition{
		Name: "Root",
		Render: func(*Context) *VNode {
			return Component(card, nil, Slots{
				"default": func() []*VNode { return []*VNode{P(nil, "body")} },
			})
		},
	}
	f := newFixture(t)
	f.mount(root, nil)
	if got := f.html(); got != `<div class="card"><p>body</p></div>` {
		t.Errorf("html = %s", got)
	}
}

func TestRenderFailures(t *testing.T) {
	tests := []struct {
		name     string
		def      *Definition
		wantHTML string
		wantCode string
	}{
		{
			name:     "missing render",
			def:      &Definition{Name: "Empty"},
			wantHTML: "<!--Empty-->",
			wantCode: "R101",
		},
		{
			name: "render panics",
			def: &Definition{
				Name:   "Broken",
				Render: func(*Context) *VNode { panic("boom") },
			},
			wantHTML: "<!--Broken-->",
			wantCode: "R109",
		},
		{
			name: "setup panics",
			def: &Definition{
				Name:   "BadSetup",
				State:  func() map[string]any { return map[string]any{"x": 1} },
				Setup:  func(*reactive.Object, *SetupContext) map[string]any { panic("setup") },
				Render: func(c *Context) *VNode { return Span(nil, fmt.Sprint(c.Get("x"))) },
			},
			wantHTML: "<span>1</span>",
			wantCode: "R107",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mount(tt.def, nil)
			if got := f.html(); got != tt.wantHTML {
				t.Errorf("html = %s, want %s", got, tt.wantHTML)
			}
			if !strings.Contains(f.logs.String(), tt.wantCode) {
				t.Errorf("%s not logged: %s", tt.wantCode, f.logs.String())
			}
		})
	}
}

func TestPanickingHookDoesNotStopOthers(t *testing.T) {
	ran := false
	def := &Definition{
		Name: "Hooks",
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			sc.OnMounted(func() { panic("bad hook") })
			sc.OnMounted(func() { ran = true })
			return nil
		},
		Render: func(*Context) *VNode { return Div(nil) },
	}
	f := newFixture(t)
	_, inst := f.mount(def, nil)
	if !ran {
		t.Error("second onMounted hook did not run")
	}
	if !inst.IsMounted() {
		t.Error("instance not mounted")
	}
	if !strings.Contains(f.logs.String(), "R106") {
		t.Errorf("hook panic not logged: %s", f.logs.String())
	}
}

func TestProvideInject(t *testing.T) {
	got := map[string]any{}
	leaf := &Definition{
		Name: "Leaf",
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			got["leaf theme"] = sc.Inject("theme", "none")
			got["size"] = InjectAs("size", 0)
			got["locale"] = Inject("locale", "?")
			got["missing"] = Inject("missing", "fallback")
			return nil
		},
		Render: func(*Context) *VNode { return Span(nil, "leaf") },
	}
	middle := &Definition{
		Name: "Middle",
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			got["middle theme"] = Inject("theme", "none")
			sc.Provide("theme", "light")
			return nil
		},
		Render: func(*Context) *VNode { return Div(nil, Component(leaf, nil, nil)) },
	}
	root := &Definition{
		Name: "Root",
		Setup: func(_ *reactive.Object, sc *SetupContext) map[string]any {
			sc.Provide("theme", "dark")
			Provide("size", 1)
			return nil
		},
		Render: func(*Context) *VNode { return Div(nil, Component(middle, nil, nil)) },
	}

	f := newFixture(t)
	NewApp(root, nil, WithLogger(f.logger())).Provide("locale", "en").Mount(f.rec, f.container)

	want := map[string]any{
		"middle theme": "dark",
		"leaf theme":   "light",
		"size":         1,
		"locale":       "en",
		"missing":      "fallback",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("injected values (-want +got):\n%s", diff)
	}
	if !strings.Contains(f.logs.String(), "R105") {
		t.Error("missing injection not logged")
	}
}

func TestContextResolution(t *testing.T) {
	ref := reactive.NewRef(1)
	child := &Definition{Name: "Child"}
	def := &Definition{
		Name:  "Resolver",
		State: func() map[string]any { return map[string]any{"x": "state", "r": ref} },
		Methods: map[string]any{
			"x":   func(*Context) any { return "method" },
			"m":   func(*Context) any { return "method" },
			"sum": func(_ *Context, args ...any) any { return args[0].(int) + args[1].(int) },
		},
		Actions: map[string]any{
			"m": func(*Context) any { return "action" },
		},
		Components: map[string]*Definition{"Child": child},
		Render:     func(c *Context) *VNode { return Span(nil, fmt.Sprint(c.Get("r"))) },
	}

	f := newFixture(t)
	app := NewApp(def, nil, WithLogger(f.logger())).Global("g", "global").Global("x", "global x")
	inst := app.Mount(f.rec, f.container)
	ctx := inst.Context()

	for name, want := range map[string]any{"x": "state", "r": 1, "g": "global"} {
		if got := ctx.Get(name); got != want {
			t.Errorf("Get(%q) = %v, want %v", name, got, want)
		}
	}
	if got := ctx.Call("m"); got != "action" {
		t.Errorf("Call(m) = %v, actions should win over methods", got)
	}
	if got := ctx.Get("m").(func(...any) any)(); got != "action" {
		t.Errorf("bound m() = %v", got)
	}
	if got := ctx.Call("sum", 2, 3); got != 5 {
		t.Errorf("Call(sum) = %v", got)
	}
	if got, _ := ctx.Get("Child").(*Definition); got != child {
		t.Errorf("Get(Child) = %v", got)
	}
	if _, ok := ctx.Get(MetaProps).(*reactive.Object); !ok {
		t.Error("$props did not resolve to the props object")
	}
	if _, ok := ctx.Lookup("nope"); ok {
		t.Error("unknown name resolved")
	}

	ctx.Set("r", 5)
	if ref.Peek() != 5 {
		t.Errorf("ref = %d, want write-through", ref.Peek())
	}
	if got, _ := inst.State().Peek("r").(*reactive.Ref[int]); got != ref {
		t.Error("ref field replaced instead of written through")
	}
	if got := f.html(); got != "<span>5</span>" {
		t.Errorf("html = %s", got)
	}

	if ctx.Call("nope") != nil || !strings.Contains(f.logs.String(), "R108") {
		t.Error("unknown method not reported")
	}
}

func TestJobQueueBatchesRerenders(t *testing.T) {
	q := reactive.NewJobQueue()
	f := newFixture(t)
	app, inst := f.mount(counterDef(), nil, WithJobQueue(q))

	f.click(t)
	f.click(t)
	f.click(t)
	if got := f.html(); got != "<button>0</button>" {
		t.Errorf("rendered before flush: %s", got)
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want 1", q.Len())
	}

	if n := app.Flush(); n != 1 {
		t.Errorf("Flush ran %d jobs, want 1", n)
	}
	if got := f.html(); got != "<button>3</button>" {
		t.Errorf("html = %s", got)
	}
	if got := inst.RenderCount(); got != 2 {
		t.Errorf("RenderCount = %d, want 2", got)
	}
	if n := app.Flush(); n != 0 {
		t.Errorf("second Flush ran %d jobs", n)
	}
}

func TestChildPropUpdates(t *testing.T) {
	setups := 0
	child := &Definition{
		Name:  "Child",
		Props: map[string]PropOption{"value": {}},
		Setup: func(*reactive.Object, *SetupContext) map[string]any {
			setups++
			return nil
		},
		Render: func(c *Context) *VNode { return Span(nil, fmt.Sprint(c.Get("value"))) },
	}
	parent := &Definition{
		Name:  "Parent",
		State: func() map[string]any { return map[string]any{"v": 1, "other": 0} },
		Render: func(c *Context) *VNode {
			return Div(nil, Component(child, Props{"value": c.GetInt("v")}, nil), Textf("%d", c.GetInt("other")))
		},
	}

	f := newFixture(t)
	_, inst := f.mount(parent, nil)
	first := inst.Subtree().Children[0].Component

	inst.State().Set("v", 2)
	if got := f.html(); got != "<div><span>2</span>0</div>" {
		t.Errorf("html = %s", got)
	}
	cur := inst.Subtree().Children[0].Component
	if cur != first {
		t.Fatal("child instance replaced on prop change")
	}
	if setups != 1 {
		t.Errorf("setup ran %d times", setups)
	}
	if got := cur.Props().Peek("value"); got != 2 {
		t.Errorf("child prop = %v", got)
	}

	renders := cur.RenderCount()
	inst.State().Set("other", 1)
	if cur.RenderCount() != renders {
		t.Error("child rerendered although its props did not change")
	}
	if got := f.html(); got != "<div><span>2</span>1</div>" {
		t.Errorf("html = %s", got)
	}
}

func TestEmit(t *testing.T) {
	var got any
	child := &Definition{
		Name: "Item",
		Actions: map[string]any{
			"fire": func(c *Context) { c.Emit("item-click", 42) },
		},
		Render: func(*Context) *VNode { return Span(nil, "item") },
	}
	root := &Definition{
		Name: "List",
		Render: func(*Context) *VNode {
			return Component(child, Props{"onItemClick": func(v any) { got = v }}, nil)
		},
	}
	f := newFixture(t)
	_, inst := f.mount(root, nil)
	inst.Subtree().Component.Context().Call("fire")
	if got != 42 {
		t.Errorf("emitted value = %v", got)
	}
}

func TestForceUpdate(t *testing.T) {
	f := newFixture(t)
	_, inst := f.mount(counterDef(), nil)
	inst.Update()
	if got := inst.RenderCount(); got != 2 {
		t.Errorf("RenderCount = %d, want 2", got)
	}
}

func TestUnmountStopsRendering(t *testing.T) {
	f := newFixture(t)
	app, inst := f.mount(counterDef(), nil)
	app.Unmount()

	if !inst.IsUnmounted() {
		t.Error("instance not unmounted")
	}
	if got := f.html(); got != "" {
		t.Errorf("html after unmount = %s", got)
	}
	inst.State().Set("count", 9)
	inst.Update()
	if got := inst.RenderCount(); got != 1 {
		t.Errorf("unmounted instance rendered: %d", got)
	}
}

func TestKeyedComponentsKeepInstances(t *testing.T) {
	setups := 0
	item := &Definition{
		Name:  "Item",
		Props: map[string]PropOption{"label": {}},
		Setup: func(*reactive.Object, *SetupContext) map[string]any {
			setups++
			return nil
		},
		Render: func(c *Context) *VNode { return Li(nil, c.GetString("label")) },
	}
	list := func(keys ...string) *VNode {
		return Ul(nil, Range(keys, func(_ int, k string) *VNode {
			return Keyed(k, Component(item, Props{"label": k}, nil))
		}))
	}
	instances := func(f *fixture) map[string]*Instance {
		out := map[string]*Instance{}
		for _, c := range f.r.Root(f.container).Children {
			out[c.Key] = c.Component
		}
		return out
	}

	f := newFixture(t)
	f.r.Render(list("a", "b", "c"), f.container)
	before := instances(f)

	f.rec.Reset()
	f.r.Render(list("c", "a", "b"), f.container)
	if diff := cmp.Diff([]string{"c", "a", "b"}, f.childTexts()); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if f.rec.Creations() != 0 || setups != 3 {
		t.Errorf("reorder recreated components: %v, %d setups", f.rec.Counts(), setups)
	}
	after := instances(f)
	for k, inst := range before {
		if after[k] != inst {
			t.Errorf("instance %s replaced", k)
		}
	}

	f.r.Render(list("a", "b"), f.container)
	if !before["c"].IsUnmounted() {
		t.Error("removed component not unmounted")
	}
	if got := dom.InnerHTML(f.container); got != "<ul><li>a</li><li>b</li></ul>" {
		t.Errorf("html = %s", got)
	}
}
