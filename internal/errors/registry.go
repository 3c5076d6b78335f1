package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Cycle detected in reactive graph",
		Detail:   "Adding this dependency edge would make a node reachable from itself. Reactive dependencies must form a DAG.",
		DocURL:   "https://nexa.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Observer stack underflow",
		Detail:   "A tracking scope was exited more times than it was entered. This indicates unbalanced push/pop of the observer stack.",
		DocURL:   "https://nexa.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Virtual tree references a missing node",
		Detail:   "A child or root handle points at a node that is not present in the arena. The tree was corrupted or a handle outlived its node.",
		DocURL:   "https://nexa.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "No active arena",
		Detail:   "Virtual node constructors may only be called while an arena is active, i.e. inside a render scope.",
		DocURL:   "https://nexa.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Propagation budget exceeded",
		Detail:   "Reactive updates kept re-entering the propagation engine past the configured budget. A signal write inside an effect is probably looping.",
		DocURL:   "https://nexa.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Cycle detected during propagation",
		Detail:   "The topological sort of the dirty closure did not cover every node, which means subscriber edges contain a cycle.",
		DocURL:   "https://nexa.dev/docs/errors/E006",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Stale handle",
		Detail:   "An operation targeted a handle whose generation no longer matches the live node. The operation was ignored.",
		DocURL:   "https://nexa.dev/docs/errors/E007",
	},
	"E008": {
		Category: CategoryRuntime,
		Message:  "Listener callback panicked",
		Detail:   "A user event callback or effect thunk panicked. The panic was isolated and the remainder of the update pass continued.",
		DocURL:   "https://nexa.dev/docs/errors/E008",
	},

	// ============================================
	// Protocol Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryProtocol,
		Message:  "Malformed mutation frame",
		Detail:   "The binary mutation batch could not be decoded. The stream is corrupt or was produced by an incompatible version.",
		DocURL:   "https://nexa.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryProtocol,
		Message:  "Unknown mutation opcode",
		Detail:   "The decoder encountered an opcode outside the known mutation set.",
		DocURL:   "https://nexa.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryProtocol,
		Message:  "Malformed event frame",
		Detail:   "The incoming event frame could not be decoded into an event payload.",
		DocURL:   "https://nexa.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryProtocol,
		Message:  "Frame exceeds size limit",
		Detail:   "A frame was larger than the configured maximum and was rejected before decoding.",
		DocURL:   "https://nexa.dev/docs/errors/E103",
	},

	// ============================================
	// Config Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "Invalid nexa.json",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   "https://nexa.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field holds a value outside its allowed range.",
		DocURL:   "https://nexa.dev/docs/errors/E201",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The project could not be built.",
		DocURL:   "https://nexa.dev/docs/errors/E300",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Deploy failed",
		Detail:   "Uploading the build output to the deployment target failed.",
		DocURL:   "https://nexa.dev/docs/errors/E301",
	},
}

// Lookup returns the template registered for code, if any.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
