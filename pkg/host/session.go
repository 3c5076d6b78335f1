package host

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/krishpranav/nexa/pkg/protocol"
	"github.com/krishpranav/nexa/pkg/runtime"
)

// Session binds one runtime to one applier connection. All runtime
// access happens on the session's goroutine; the connection is the
// only shared edge.
type Session struct {
	id      uint64
	conn    *websocket.Conn
	rt      *runtime.Runtime
	newApp  AppFactory
	enc     *protocol.Encoder
	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Run mounts the application and processes frames until the
// connection closes. It must be the only function touching rt.
func (s *Session) Run() {
	s.metrics.SessionsActive.Inc()
	s.metrics.SessionsTotal.Inc()
	defer s.metrics.SessionsActive.Dec()
	defer s.conn.Close()

	// The runtime and the app's reactive state bind to this goroutine.
	s.rt = runtime.New()
	s.rt.Mount(s.newApp())
	if err := s.sendMutations(); err != nil {
		s.logger.Warn("initial batch write failed", "session", s.id, "err", err)
		return
	}

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		s.handleFrame(data)
	}
}

func (s *Session) handleFrame(data []byte) {
	ft, payload, err := protocol.DecodeFrame(data)
	if err != nil {
		s.metrics.DecodeErrors.Inc()
		s.logger.Warn("bad frame", "session", s.id, "err", err)
		return
	}
	switch ft {
	case protocol.FrameHello:
		// Nothing to negotiate at version 1.
	case protocol.FrameControl:
		if len(payload) == 1 && payload[0] == protocol.ControlPing {
			s.writeFrame(protocol.FrameControl, []byte{protocol.ControlPong})
		}
	case protocol.FrameEvent:
		s.handleEvent(payload)
	}
}

func (s *Session) handleEvent(payload []byte) {
	target, event, err := protocol.DecodeEvent(protocol.NewDecoder(payload))
	if err != nil {
		s.metrics.DecodeErrors.Inc()
		s.logger.Warn("bad event frame", "session", s.id, "err", err)
		return
	}

	_, span := s.tracer.Start(context.Background(), "nexa.event")
	span.SetAttributes(
		attribute.String("event.name", event.EventName()),
		attribute.String("event.target", strconv.FormatUint(target, 10)),
		attribute.String("session.id", strconv.FormatUint(s.id, 10)),
	)
	start := time.Now()

	s.rt.HandleEvent(target, event)
	err = s.sendMutations()

	s.metrics.EventsTotal.WithLabelValues(event.EventName()).Inc()
	s.metrics.EventDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// sendMutations drains the runtime and, when the batch is non-empty,
// encodes and writes one mutation frame.
func (s *Session) sendMutations() error {
	batch := s.rt.DrainMutations()
	if len(batch) == 0 {
		return nil
	}
	s.enc.Reset()
	protocol.EncodeMutations(s.enc, batch)
	frame := protocol.EncodeFrame(protocol.FrameMutations, s.enc.Bytes())

	s.metrics.BatchesTotal.Inc()
	s.metrics.MutationsTotal.Add(float64(len(batch)))
	s.metrics.BatchBytes.Add(float64(len(frame)))

	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Session) writeFrame(ft protocol.FrameType, payload []byte) {
	_ = s.conn.WriteMessage(websocket.BinaryMessage, protocol.EncodeFrame(ft, payload))
}
