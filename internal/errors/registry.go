package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reactive Errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryReactive,
		Message:  "Effect panicked",
		Detail:   "An effect function panicked while re-running after a trigger.",
	},

	// ============================================
	// Component Errors (R100-R199)
	// ============================================

	"R101": {
		Category: CategoryComponent,
		Message:  "Component is missing a render function",
		Detail:   "A comment placeholder was rendered instead.",
	},
	"R102": {
		Category: CategoryComponent,
		Message:  "provide() called outside setup",
		Detail:   "provide is only usable while a component's setup function runs.",
	},
	"R103": {
		Category: CategoryComponent,
		Message:  "inject() called outside setup",
		Detail:   "inject is only usable while a component's setup function runs; the default was returned.",
	},
	"R104": {
		Category: CategoryComponent,
		Message:  "Lifecycle hook registered outside setup",
		Detail:   "Lifecycle hooks can only be registered while a component's setup function runs.",
	},
	"R105": {
		Category: CategoryComponent,
		Message:  "Injection not found",
		Detail:   "No ancestor provided the key; the default was returned.",
	},
	"R106": {
		Category: CategoryComponent,
		Message:  "Lifecycle hook panicked",
		Detail:   "A lifecycle hook panicked; the panic was recovered.",
	},
	"R107": {
		Category: CategoryComponent,
		Message:  "Setup panicked",
		Detail:   "A component's setup function panicked; the component renders with the state gathered so far.",
	},
	"R108": {
		Category: CategoryComponent,
		Message:  "Unknown method",
		Detail:   "Call referenced a name that is neither an action nor a method.",
	},
	"R109": {
		Category: CategoryComponent,
		Message:  "Render panicked",
		Detail:   "A component's render function panicked; a comment placeholder was rendered instead.",
	},

	// ============================================
	// Hydration Errors (R200-R299)
	// ============================================

	"R201": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: node type differs",
		Detail:   "The server-rendered node does not match the client VNode.",
	},
	"R202": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: text content differs",
		Detail:   "The server-rendered text doesn't match what the client rendered.",
	},
	"R203": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: missing node",
		Detail:   "The client expected a node where the server markup has none.",
	},
	"R204": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: element tag differs",
		Detail:   "The server-rendered element tag doesn't match the client VNode.",
	},
	"R205": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: extra server nodes",
		Detail:   "The server markup contains more children than the client rendered.",
	},
	"R206": {
		Category: CategoryHydration,
		Message:  "Invalid server state",
		Detail:   "The serialized component state could not be decoded.",
	},

	// ============================================
	// Render Errors (R300-R399)
	// ============================================

	"R301": {
		Category: CategoryRender,
		Message:  "Teleport target not found",
		Detail:   "The teleport target selector matched nothing; its children were dropped.",
	},
	"R302": {
		Category: CategoryRender,
		Message:  "Invalid VNode",
		Detail:   "The VNode kind is not recognized.",
	},
	"R303": {
		Category: CategoryRender,
		Message:  "SSR write failed",
		Detail:   "Writing rendered HTML to the output failed.",
	},

	// ============================================
	// Config Errors (R400-R499)
	// ============================================

	"R401": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No reactor.json or reactor.yaml was found.",
	},
	"R402": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed.",
	},
	"R403": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range.",
	},
	"R410": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command arguments could not be parsed.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
