// Package dev runs the development server: an HTTP server that serves
// the server-rendered document shell, the WebSocket session endpoint
// for live updates, static build output, and an optional Prometheus
// metrics endpoint.
package dev
