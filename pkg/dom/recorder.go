package dom

import "sort"

// Call is one recorded host operation.
type Call struct {
	Op   string
	Node Node
	Arg  string
}

// Recorder wraps a Host and records every mutating or querying call.
// Navigation and inspection calls are forwarded without being recorded.
type Recorder struct {
	Host

	calls  []Call
	counts map[string]int
}

var _ Host = (*Recorder)(nil)

// NewRecorder wraps h.
func NewRecorder(h Host) *Recorder {
	return &Recorder{Host: h, counts: make(map[string]int)}
}

func (r *Recorder) record(op string, n Node, arg string) {
	r.calls = append(r.calls, Call{Op: op, Node: n, Arg: arg})
	r.counts[op]++
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	return r.counts[op]
}

// Creations returns the number of node-creation calls.
func (r *Recorder) Creations() int {
	return r.counts[OpCreateElement] + r.counts[OpCreateText] + r.counts[OpCreateComment]
}

// Total returns the number of recorded calls.
func (r *Recorder) Total() int {
	return len(r.calls)
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Ops returns the names of the recorded operations in call order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Counts returns a copy of the per-operation counters, omitting zeros.
func (r *Recorder) Counts() map[string]int {
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Summary returns the recorded operation names sorted, one per kind.
func (r *Recorder) Summary() []string {
	out := make([]string, 0, len(r.counts))
	for k := range r.Counts() {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.calls = nil
	r.counts = make(map[string]int)
}

func (r *Recorder) CreateElement(tag string) Node {
	n := r.Host.CreateElement(tag)
	r.record(OpCreateElement, n, tag)
	return n
}

func (r *Recorder) CreateText(text string) Node {
	n := r.Host.CreateText(text)
	r.record(OpCreateText, n, text)
	return n
}

func (r *Recorder) CreateComment(text string) Node {
	n := r.Host.CreateComment(text)
	r.record(OpCreateComment, n, text)
	return n
}

func (r *Recorder) SetElementText(el Node, text string) {
	r.record(OpSetElementText, el, text)
	r.Host.SetElementText(el, text)
}

func (r *Recorder) SetText(node Node, text string) {
	r.record(OpSetText, node, text)
	r.Host.SetText(node, text)
}

func (r *Recorder) Insert(child, parent, anchor Node) {
	r.record(OpInsert, child, "")
	r.Host.Insert(child, parent, anchor)
}

func (r *Recorder) Remove(child Node) {
	r.record(OpRemove, child, "")
	r.Host.Remove(child)
}

func (r *Recorder) PatchProp(el Node, key string, prev, next any) {
	r.record(OpPatchProp, el, key)
	r.Host.PatchProp(el, key, prev, next)
}

func (r *Recorder) QuerySelector(selector string) Node {
	r.record(OpQuerySelector, nil, selector)
	return r.Host.QuerySelector(selector)
}

// GetAttribute forwards to the wrapped host when it can read attributes.
func (r *Recorder) GetAttribute(el Node, name string) (string, bool) {
	if ar, ok := r.Host.(AttributeReader); ok {
		return ar.GetAttribute(el, name)
	}
	return "", false
}
