package vdom

import (
	"math"
	"strings"

	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// PropOption declares one component prop. Default may be a func() any, in
// which case it is called for every instance that omits the prop.
type PropOption struct {
	Default  any
	Required bool
}

func (o PropOption) defaultValue() any {
	if fn, ok := o.Default.(func() any); ok {
		return fn()
	}
	return o.Default
}

// Definition describes a component type.
//
// Methods and Actions hold functions with one of these signatures:
//
//	func(*Context)
//	func(*Context) any
//	func(*Context, ...any)
//	func(*Context, ...any) any
type Definition struct {
	Name       string
	Props      map[string]PropOption
	State      func() map[string]any
	Setup      func(props *reactive.Object, sc *SetupContext) map[string]any
	Render     func(ctx *Context) *VNode
	Methods    map[string]any
	Actions    map[string]any
	Components map[string]*Definition
}

func (d *Definition) displayName() string {
	if d == nil || d.Name == "" {
		return "Anonymous"
	}
	return d.Name
}

// resolveProps splits raw vnode props into declared props (with defaults
// applied) and fallthrough attrs.
func resolveProps(def *Definition, raw Props) (map[string]any, Props) {
	props := make(map[string]any, len(def.Props))
	for name, opt := range def.Props {
		if v, ok := raw[name]; ok {
			props[name] = v
		} else {
			props[name] = opt.defaultValue()
		}
	}
	var attrs Props
	for k, v := range raw {
		if _, declared := def.Props[k]; declared {
			continue
		}
		if attrs == nil {
			attrs = make(Props)
		}
		attrs[k] = v
	}
	return props, attrs
}

// shouldUpdateComponent reports whether a parent rerender must rerender
// the child: props changed, or slot content was passed.
func shouldUpdateComponent(n1, n2 *VNode) bool {
	if n1.Slots != nil || n2.Slots != nil {
		return true
	}
	if len(n1.Props) != len(n2.Props) {
		return true
	}
	for k, next := range n2.Props {
		prev, ok := n1.Props[k]
		if !ok || reactive.HasChanged(prev, next) {
			return true
		}
	}
	return false
}

// mergeFallthrough returns root with attrs applied to its props. class and
// style are concatenated; other attrs override.
func mergeFallthrough(root *VNode, attrs Props) *VNode {
	if len(attrs) == 0 {
		return root
	}
	switch root.Kind {
	case KindElement, KindComponent:
	default:
		return root
	}
	merged := *root
	merged.Props = make(Props, len(root.Props)+len(attrs))
	for k, v := range root.Props {
		merged.Props[k] = v
	}
	for k, v := range attrs {
		prev, had := merged.Props[k]
		switch {
		case had && k == "class":
			merged.Props[k] = joinNonEmpty(k, " ", prev, v)
		case had && k == "style":
			merged.Props[k] = joinNonEmpty(k, "; ", prev, v)
		default:
			merged.Props[k] = v
		}
	}
	return &merged
}

func joinNonEmpty(key, sep string, values ...any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, _ := dom.AttrValue(key, v)
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// coerceLike converts a JSON-decoded number to the numeric type of prev so
// server snapshots keep the client's field types.
func coerceLike(prev, v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	switch prev.(type) {
	case int:
		if f == math.Trunc(f) {
			return int(f)
		}
	case int64:
		if f == math.Trunc(f) {
			return int64(f)
		}
	case float32:
		return float32(f)
	}
	return v
}
