// Package errors provides coded, structured diagnostics for the reactor engine.
//
// Every warning the engine can emit (inject outside setup, a component with
// no render function, a teleport whose target is missing, a hydration
// mismatch) has a stable code registered here. Diagnostics are values: the
// engine logs them through log/slog and keeps going. Only configuration
// loading and SSR I/O surface them as returned Go errors.
//
// # Error Codes
//
//   - R0xx: reactive core
//   - R1xx: component instances, setup, provide/inject, hooks
//   - R2xx: hydration
//   - R3xx: patching and rendering
//   - R4xx: configuration and CLI
//
// # Usage
//
//	err := errors.New("R201").
//	    WithDetail("expected <p>, found #text").
//	    WithSuggestion("Render the same tree on the server and the client")
//
//	err.Log(logger)
package errors
