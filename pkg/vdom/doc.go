// Package vdom is the virtual DOM patch engine and component runtime.
//
// A render pass produces a VNode tree. The Renderer diffs it against the
// tree from the previous pass and applies the difference through a
// dom.Host, or walks existing server markup in lockstep with it when
// hydrating.
//
// # Core Types
//
// VNode describes an element, text, comment, fragment, teleport or
// component. Props holds attributes and on<Event> handlers. H, Text,
// Comment, Fragment, Teleport and Component build nodes:
//
//	H("ul", nil,
//	    Keyed("a", H("li", nil, "first")),
//	    Keyed("b", H("li", nil, "second")),
//	)
//
// # Reconciliation
//
// Children without keys are patched positionally. When any new child is
// keyed, the renderer matches common prefixes and suffixes first, then
// maps the remaining window by key and moves only the nodes outside the
// longest increasing subsequence of old positions.
//
// # Components
//
// A Definition describes a component: declared props, state, setup, render
// and methods. Each mounted component slot gets an Instance whose render
// runs inside a reactive effect, so any state it reads schedules a rerender
// when written. Provide/Inject and the On* lifecycle hooks are available
// while setup runs.
//
// # Hydration
//
// Hydrate attaches to server-rendered markup instead of creating nodes.
// Whitespace-only text and marker comments are skipped. Mismatches are
// logged and, by default, the affected subtree is left as the server
// rendered it; WithHydrationFallback(HydrationRemount) mounts it fresh.
package vdom
