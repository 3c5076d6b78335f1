// Package errors provides structured, actionable error messages for Nexa.
//
// Each error carries a stable code (e.g. "E001") mapping to a short
// message, a detailed explanation and a documentation URL. Errors are
// organized into categories:
//   - runtime: reactive graph and runtime invariant violations
//   - protocol: wire protocol errors (bad frames, codec failures)
//   - config: nexa.json problems
//   - cli: command-line tooling failures
//
// Usage:
//
//	err := errors.New("E001").WithDetailf("edge %v -> %v", o, d)
package errors
