package render

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Development only: hydration skips
	// the added whitespace, but output size grows.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// NoMarkers omits the <!--[--> and <!--]--> comments around fragments
	// and the content markers around teleported markup. Hydration then
	// inserts its own anchors.
	NoMarkers bool

	// Logger receives component diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Globals are resolvable by name from every component context.
	Globals map[string]any

	// Provides are app-level injections.
	Provides map[any]any
}

// Result is the output of one render pass.
type Result struct {
	// HTML is the rendered markup. Empty for RenderToWriter.
	HTML string

	// State maps component UIDs to their state snapshots, for
	// vdom.WithServerState on the client.
	State map[int]map[string]any

	// Teleports maps teleport targets to the markup rendered into them.
	Teleports map[string]string
}

// Renderer renders VNode trees to HTML. Components are created in string
// rendering mode: setup runs, state is a plain map and no lifecycle hook
// fires. A Renderer is not safe for concurrent use.
type Renderer struct {
	config RendererConfig

	app       *vdom.AppContext
	state     map[int]map[string]any
	teleports map[string]*strings.Builder
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// Render renders node and returns the markup with the collected state and
// teleport content.
func (r *Renderer) Render(node *vdom.VNode) (*Result, error) {
	var sb strings.Builder
	res, err := r.RenderToWriter(&sb, node)
	if err != nil {
		return nil, err
	}
	res.HTML = sb.String()
	return res, nil
}

// RenderToString renders node to a string, discarding state and teleports.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	res, err := r.Render(node)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderToWriter streams node to w. Every call is a fresh pass: component
// UIDs restart at 1, matching a freshly created client app.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) (*Result, error) {
	r.reset()
	hw := &htmlWriter{w: w}
	if err := r.renderNode(hw, node, nil, 0); err != nil {
		return nil, err
	}
	if hw.err != nil {
		return nil, errors.New("R303").Wrap(hw.err)
	}

	res := &Result{
		State:     r.state,
		Teleports: make(map[string]string, len(r.teleports)),
	}
	for target, sb := range r.teleports {
		res.Teleports[target] = sb.String()
	}
	return res, nil
}

func (r *Renderer) reset() {
	r.app = vdom.NewAppContext(vdom.WithLogger(r.config.Logger))
	for name, v := range r.config.Globals {
		r.app.SetGlobal(name, v)
	}
	for key, v := range r.config.Provides {
		r.app.Provide(key, v)
	}
	r.state = make(map[int]map[string]any)
	r.teleports = make(map[string]*strings.Builder)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w *htmlWriter, node *vdom.VNode, parent *vdom.Instance, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, parent, depth)
	case vdom.KindText:
		w.str(escapeHTML(node.Text))
	case vdom.KindComment:
		w.str("<!--" + escapeComment(node.Text) + "-->")
	case vdom.KindFragment:
		if !r.config.NoMarkers {
			w.str("<!--" + vdom.FragmentStart + "-->")
		}
		if err := r.renderChildren(w, node.Children, parent, depth); err != nil {
			return err
		}
		if !r.config.NoMarkers {
			w.str("<!--" + vdom.FragmentEnd + "-->")
		}
	case vdom.KindTeleport:
		return r.renderTeleport(w, node, parent, depth)
	case vdom.KindComponent:
		return r.renderComponent(w, node, parent, depth)
	default:
		return errors.New("R302").WithDetailf("kind %d", node.Kind)
	}
	return nil
}

// renderChildren renders siblings. Adjacent text nodes are separated by an
// empty comment so the browser does not merge them into one text node.
func (r *Renderer) renderChildren(w *htmlWriter, children []*vdom.VNode, parent *vdom.Instance, depth int) error {
	prevText := false
	for _, child := range children {
		if child == nil {
			continue
		}
		isText := child.Kind == vdom.KindText
		if isText && prevText {
			w.str("<!---->")
		}
		if err := r.renderNode(w, child, parent, depth); err != nil {
			return err
		}
		prevText = isText
	}
	return nil
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w *htmlWriter, node *vdom.VNode, parent *vdom.Instance, depth int) error {
	tag := node.Tag
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.str("<" + tag)
	renderAttributes(w, node.Props)
	w.str(">")

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.str("\n")
		}
		return nil
	}

	switch node.Shape {
	case vdom.ChildrenText:
		w.str(escapeHTML(node.Text))
	case vdom.ChildrenArray:
		block := r.config.Pretty && !isInlineElement(tag)
		if block {
			w.str("\n")
		}
		if err := r.renderChildren(w, node.Children, parent, depth+1); err != nil {
			return err
		}
		if block {
			r.writeIndent(w, depth)
		}
	}

	w.str("</" + tag + ">")
	if r.config.Pretty {
		w.str("\n")
	}
	return nil
}

// renderTeleport leaves a placeholder in place and renders the children
// into the target's buffer.
func (r *Renderer) renderTeleport(w *htmlWriter, node *vdom.VNode, parent *vdom.Instance, depth int) error {
	w.str("<!--" + vdom.TeleportStart + "--><!--" + vdom.TeleportEnd + "-->")

	sb, ok := r.teleports[node.Target]
	if !ok {
		sb = &strings.Builder{}
		r.teleports[node.Target] = sb
	}
	tw := &htmlWriter{w: sb}
	if !r.config.NoMarkers {
		tw.str("<!--" + vdom.TeleportContentStart + "-->")
	}
	if err := r.renderChildren(tw, node.Children, parent, depth); err != nil {
		return err
	}
	if !r.config.NoMarkers {
		tw.str("<!--" + vdom.TeleportContentEnd + "-->")
	}
	return nil
}

// renderComponent creates the instance, renders its subtree once and
// records its state snapshot under its UID.
func (r *Renderer) renderComponent(w *htmlWriter, node *vdom.VNode, parent *vdom.Instance, depth int) error {
	inst := vdom.CreateComponent(node, parent, true, false, r.app)
	tree := inst.RenderSubtree()
	r.state[inst.UID()] = inst.Snapshot()
	return r.renderNode(w, tree, inst, depth)
}

// renderAttributes renders props as attributes in key order. Event
// handlers and nil values never render; true renders the bare name.
func renderAttributes(w *htmlWriter, props vdom.Props) {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]
		if _, isEvent := dom.EventName(key); isEvent {
			continue
		}
		if b, ok := value.(bool); ok {
			if b {
				w.str(" " + key)
			}
			continue
		}
		s, present := dom.AttrValue(key, value)
		if !present {
			continue
		}
		if isBooleanAttr(key) && s == "" {
			w.str(" " + key)
			continue
		}
		w.str(" " + key + `="` + escapeAttr(s) + `"`)
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *htmlWriter, depth int) {
	w.str(strings.Repeat(r.config.Indent, depth))
}

// htmlWriter keeps the first write error and drops later writes.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) str(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}
