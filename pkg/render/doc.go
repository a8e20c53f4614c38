// Package render renders VNode trees to HTML on the server.
//
// Component nodes are instantiated in string rendering mode: setup runs,
// state is a plain map and lifecycle hooks never fire. Each component's
// final state is captured under its UID so the client can hydrate with the
// same values:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	res, err := r.Render(vdom.Component(App, nil, nil))
//	// send res.HTML and res.State to the client, then:
//	app := vdom.NewApp(App, nil, vdom.WithServerState(res.State))
//	app.Hydrate(host, container)
//
// # Markup contract
//
// Fragments are wrapped in <!--[--> and <!--]--> comments, adjacent text
// nodes are separated by an empty comment, and teleports leave a
// <!--teleport start--><!--teleport end--> placeholder in place while their
// content is collected per target in Result.Teleports. Text and attribute
// values are escaped; event handler props never render.
//
// # Full pages
//
// RenderPage writes a complete document with the state snapshots in a
// JSON script element (see StateScriptID), and StreamingRenderer flushes
// the head before rendering the body.
package render
