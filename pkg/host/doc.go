// Package host runs documents for remote appliers.
//
// Each WebSocket connection gets its own session: a runtime mounted on
// the session goroutine, an event-decode → dispatch → drain → encode
// loop, and a mutation stream back to the thin client. Sessions are
// instrumented with Prometheus counters and OpenTelemetry spans around
// each event cycle.
package host
