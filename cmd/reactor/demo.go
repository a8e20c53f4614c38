package main

import (
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

var todoItemDef = &vdom.Definition{
	Name: "TodoItem",
	Props: map[string]vdom.PropOption{
		"label": {Required: true},
		"done":  {Default: false},
	},
	Render: func(c *vdom.Context) *vdom.VNode {
		class := "item"
		if c.Get("done") == true {
			class += " done"
		}
		return vdom.Li(vdom.Props{"class": class}, c.GetString("label"))
	},
}

// todoListDef is the demo root: a titled list with a counter of finished
// items and a teleported status line.
var todoListDef = &vdom.Definition{
	Name: "TodoList",
	Props: map[string]vdom.PropOption{
		"title": {Default: "Todos"},
	},
	State: func() map[string]any {
		return map[string]any{
			"items": []any{"parse markup", "diff children", "hydrate"},
			"done":  1,
		}
	},
	Actions: map[string]any{
		"finish": func(c *vdom.Context) {
			c.Set("done", c.GetInt("done")+1)
		},
	},
	Render: func(c *vdom.Context) *vdom.VNode {
		done := c.GetInt("done")

		var rows []*vdom.VNode
		for i, item := range listItems(c.Get("items")) {
			label, _ := item.(string)
			rows = append(rows, vdom.Component(todoItemDef, vdom.Props{
				"key":   label,
				"label": label,
				"done":  i < done,
			}, nil))
		}

		return vdom.Section(vdom.Props{"class": "todos"},
			vdom.H("h1", nil, c.GetString("title")),
			vdom.Ul(nil, rows),
			vdom.Fragment(vdom.Textf("%d", done), " done"),
			vdom.Button(vdom.Props{"onClick": c.Handler("finish")}, "Finish next"),
			vdom.Teleport("#status", vdom.P(nil, vdom.Textf("%d items", len(rows)))),
		)
	},
}

// listItems reads a list state field, which is a *reactive.List on the
// client and a plain slice during server rendering.
func listItems(v any) []any {
	switch t := v.(type) {
	case *reactive.List:
		return t.Items()
	case []any:
		return t
	}
	return nil
}
