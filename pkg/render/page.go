package render

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// StateScriptID is the id of the JSON script element holding the
// component state snapshots of a rendered page.
const StateScriptID = "__reactor_state"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// MountID is the id of the element Body is rendered into.
	// Defaults to "app".
	MountID string

	// Meta contains name/content meta tags.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains script tags placed after the state script.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
}

// RenderPage renders a complete HTML document. Teleports whose target is
// an id selector get a container element after the mount element; other
// targets are expected to exist in the page already and are dropped.
func (r *Renderer) RenderPage(w io.Writer, page PageData) (*Result, error) {
	return r.renderPage(w, page, func() {})
}

func (r *Renderer) renderPage(w io.Writer, page PageData, flush func()) (*Result, error) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	mountID := page.MountID
	if mountID == "" {
		mountID = "app"
	}

	hw := &htmlWriter{w: w}
	hw.str("<!DOCTYPE html>\n")
	hw.str(`<html lang="` + escapeAttr(lang) + `">` + "\n")
	renderHead(hw, page)
	flush()

	hw.str("<body>\n")
	hw.str(`<div id="` + escapeAttr(mountID) + `">`)
	res, err := r.RenderToWriter(w, page.Body)
	if err != nil {
		return nil, err
	}
	hw.str("</div>\n")

	targets := make([]string, 0, len(res.Teleports))
	for target := range res.Teleports {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		id, ok := strings.CutPrefix(target, "#")
		if !ok || strings.ContainsAny(id, " .#[:>") {
			continue
		}
		hw.str(`<div id="` + escapeAttr(id) + `">` + res.Teleports[target] + "</div>\n")
	}

	state, err := json.Marshal(res.State)
	if err != nil {
		return nil, errors.New("R303").Wrap(err)
	}
	hw.str(`<script type="application/json" id="` + StateScriptID + `">`)
	hw.str(string(state))
	hw.str("</script>\n")

	for _, s := range page.Scripts {
		renderScriptTag(hw, s)
	}
	hw.str("</body>\n</html>\n")
	flush()

	if hw.err != nil {
		return nil, errors.New("R303").Wrap(hw.err)
	}
	return res, nil
}

func renderHead(w *htmlWriter, page PageData) {
	w.str("<head>\n")
	w.str(`  <meta charset="utf-8">` + "\n")
	if page.Title != "" {
		w.str("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	for _, m := range page.Meta {
		w.str(`  <meta name="` + escapeAttr(m.Name) + `" content="` + escapeAttr(m.Content) + `">` + "\n")
	}
	for _, href := range page.StyleSheets {
		w.str(`  <link rel="stylesheet" href="` + escapeAttr(href) + `">` + "\n")
	}
	w.str("</head>\n")
}

func renderScriptTag(w *htmlWriter, s ScriptTag) {
	w.str("<script")
	if s.Module {
		w.str(` type="module"`)
	}
	w.str(` src="` + escapeAttr(s.Src) + `"`)
	if s.Defer {
		w.str(" defer")
	}
	w.str("></script>\n")
}

// ParseState decodes the state script content written by RenderPage.
func ParseState(data []byte) (map[int]map[string]any, error) {
	var state map[int]map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.New("R206").Wrap(err)
	}
	return state, nil
}

// StateFromDocument finds the state script in a parsed page and decodes
// it. A page without one yields nil state.
func StateFromDocument(d *dom.Document) (map[int]map[string]any, error) {
	n, _ := d.QuerySelector("#" + StateScriptID).(*dom.MemNode)
	if n == nil {
		return nil, nil
	}
	return ParseState([]byte(n.TextContent()))
}
