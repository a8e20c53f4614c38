// Package dom defines the host DOM capability the patch engine is written
// against, and ships an in-memory implementation of it.
//
// The engine never touches nodes directly. Every creation, insertion,
// removal and property write goes through a Host, so the same engine drives
// a browser bridge, a server-side node tree or a test double.
//
// Document is the in-memory host:
//
//	doc := dom.NewDocument()
//	app := doc.CreateElement("div")
//	doc.Insert(app, doc.Body(), nil)
//
// ParseHTML loads server markup into a Document for hydration, and
// OuterHTML/InnerHTML serialize it back. Recorder wraps any Host and counts
// calls per operation.
package dom
