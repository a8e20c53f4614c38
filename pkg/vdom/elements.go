package vdom

// Div returns a <div> element.
func Div(props Props, children ...any) *VNode { return H("div", props, children...) }

// Span returns a <span> element.
func Span(props Props, children ...any) *VNode { return H("span", props, children...) }

// P returns a <p> element.
func P(props Props, children ...any) *VNode { return H("p", props, children...) }

// Ul returns a <ul> element.
func Ul(props Props, children ...any) *VNode { return H("ul", props, children...) }

// Li returns a <li> element.
func Li(props Props, children ...any) *VNode { return H("li", props, children...) }

// Button returns a <button> element.
func Button(props Props, children ...any) *VNode { return H("button", props, children...) }

// Input returns an <input> element. Input is a void element and takes no
// children.
func Input(props Props) *VNode { return H("input", props) }

// Section returns a <section> element.
func Section(props Props, children ...any) *VNode { return H("section", props, children...) }
