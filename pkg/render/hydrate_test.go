package render

import (
	"bytes"
	"testing"

	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func widgetDef() *vdom.Definition {
	label := &vdom.Definition{
		Name:   "Label",
		Props:  map[string]vdom.PropOption{"text": {}},
		Render: func(c *vdom.Context) *vdom.VNode { return vdom.Span(nil, c.GetString("text")) },
	}
	return &vdom.Definition{
		Name:  "Widget",
		Props: map[string]vdom.PropOption{"start": {Default: 0}},
		Setup: func(props *reactive.Object, _ *vdom.SetupContext) map[string]any {
			return map[string]any{"count": props.Peek("start")}
		},
		Actions: map[string]any{
			"inc": func(c *vdom.Context) { c.Set("count", c.GetInt("count")+1) },
		},
		Render: func(c *vdom.Context) *vdom.VNode {
			return vdom.Div(nil,
				vdom.Button(vdom.Props{"onClick": c.Handler("inc")}, vdom.Textf("%d", c.GetInt("count"))),
				vdom.Fragment("a", "b"),
				vdom.Component(label, vdom.Props{"text": "lbl"}, nil),
			)
		},
	}
}

func TestServerRenderHydratesOnClient(t *testing.T) {
	var page bytes.Buffer
	_, err := NewRenderer(RendererConfig{}).RenderPage(&page, PageData{
		Body: vdom.Component(widgetDef(), vdom.Props{"start": 5}, nil),
	})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := dom.ParseDocument(page.String())
	if err != nil {
		t.Fatal(err)
	}
	state, err := StateFromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	mount := doc.QuerySelector("#app")
	if got, want := dom.InnerHTML(mount), `<div><button>5</button><!--[-->a<!---->b<!--]--><span>lbl</span></div>`; got != want {
		t.Fatalf("server markup = %s, want %s", got, want)
	}

	var logs bytes.Buffer
	rec := dom.NewRecorder(doc)
	// The client starts from a different prop; the server snapshot wins.
	inst := vdom.NewApp(widgetDef(), nil, vdom.WithLogger(slogTo(&logs)), vdom.WithServerState(state)).
		Hydrate(rec, mount)

	if rec.Creations() != 0 {
		t.Errorf("hydration created nodes: %v", rec.Counts())
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected diagnostics: %s", logs.String())
	}
	if got := inst.State().Peek("count"); got != 5 {
		t.Errorf("count = %#v, want int 5", got)
	}

	if !doc.Dispatch(doc.QuerySelector("button"), "click") {
		t.Fatal("button has no click listener after hydration")
	}
	if got := doc.QuerySelector("button").(*dom.MemNode).TextContent(); got != "6" {
		t.Errorf("button text after click = %q, want 6", got)
	}
}
