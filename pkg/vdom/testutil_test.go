package vdom

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/vango-dev/reactor/pkg/dom"
)

type fixture struct {
	doc       *dom.Document
	rec       *dom.Recorder
	r         *Renderer
	container dom.Node
	logs      *bytes.Buffer
}

// newFixture returns a renderer over a recorded in-memory document with a
// <div> container attached to the body.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	container := doc.CreateElement("div")
	doc.Insert(container, doc.Body(), nil)

	logs := &bytes.Buffer{}
	rec := dom.NewRecorder(doc)
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(logs, nil)))}, opts...)
	return &fixture{
		doc:       doc,
		rec:       rec,
		r:         NewRenderer(rec, opts...),
		container: container,
		logs:      logs,
	}
}

func (f *fixture) html() string {
	return dom.InnerHTML(f.container)
}

func keyedList(keys ...string) *VNode {
	items := make([]*VNode, len(keys))
	for i, k := range keys {
		items[i] = Keyed(k, Li(nil, k))
	}
	return Ul(nil, items)
}

func plainList(items ...string) *VNode {
	children := make([]*VNode, len(items))
	for i, s := range items {
		children[i] = Li(nil, s)
	}
	return Ul(nil, children)
}

// childNodes returns the host nodes under the first child of the container.
func (f *fixture) childNodes() []dom.Node {
	var out []dom.Node
	list := f.doc.FirstChild(f.container)
	for c := f.doc.FirstChild(list); c != nil; c = f.doc.NextSibling(c) {
		out = append(out, c)
	}
	return out
}

func (f *fixture) childTexts() []string {
	var out []string
	for _, n := range f.childNodes() {
		out = append(out, n.(*dom.MemNode).TextContent())
	}
	return out
}

func (f *fixture) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(f.logs, nil))
}

// mount creates an app for def that logs to the fixture and mounts it into
// the container.
func (f *fixture) mount(def *Definition, props Props, opts ...Option) (*App, *Instance) {
	opts = append([]Option{WithLogger(f.logger())}, opts...)
	app := NewApp(def, props, opts...)
	return app, app.Mount(f.rec, f.container)
}

// setHTML replaces the container content with server markup and clears the
// recorder.
func (f *fixture) setHTML(t *testing.T, markup string) {
	t.Helper()
	if err := f.doc.SetInnerHTML(f.container.(*dom.MemNode), markup); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	f.rec.Reset()
}

// click dispatches a click on the first element child of the container.
func (f *fixture) click(t *testing.T) {
	t.Helper()
	if !f.doc.Dispatch(f.doc.FirstChild(f.container), "click") {
		t.Fatal("no click listener on the root element")
	}
}

func counterDef() *Definition {
	return &Definition{
		Name:  "Counter",
		State: func() map[string]any { return map[string]any{"count": 0} },
		Actions: map[string]any{
			"inc": func(c *Context) { c.Set("count", c.GetInt("count")+1) },
		},
		Render: func(c *Context) *VNode {
			return Button(Props{"onClick": c.Handler("inc")}, Textf("%d", c.GetInt("count")))
		},
	}
}
