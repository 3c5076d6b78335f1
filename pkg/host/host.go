package host

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/krishpranav/nexa/pkg/protocol"
	"github.com/krishpranav/nexa/pkg/vdom"
)

// tracerName is the instrumentation scope for host spans.
const tracerName = "github.com/krishpranav/nexa/pkg/host"

// App is the root render thunk a session mounts.
type App func() vdom.NodeID

// AppFactory builds a session's App on the session goroutine, so the
// reactive state the closure captures binds to that session's runtime.
type AppFactory func() App

// Host accepts applier connections and runs one session per
// connection.
type Host struct {
	newApp   AppFactory
	upgrader websocket.Upgrader
	metrics  *Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
	nextID   atomic.Uint64
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics sets pre-registered metrics (for a custom registry).
func WithMetrics(m *Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// WithCheckOrigin overrides the WebSocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(h *Host) {
		h.upgrader.CheckOrigin = fn
	}
}

// New creates a host whose sessions each mount newApp().
func New(newApp AppFactory, opts ...Option) *Host {
	h := &Host{
		newApp: newApp,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		tracer: otel.Tracer(tracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	return h
}

// ServeHTTP upgrades the request and starts the session on its own
// goroutine, which runs until the connection closes, and returns.
// Each session goroutine owns its runtime.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "err", err)
		return
	}
	session := &Session{
		id:      h.nextID.Add(1),
		conn:    conn,
		newApp:  h.newApp,
		enc:     protocol.NewEncoder(),
		metrics: h.metrics,
		tracer:  h.tracer,
		logger:  h.logger,
	}
	go session.Run()
}
