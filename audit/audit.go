// Package audit records the outcome of every dispatched JSON-RPC request.
//
// Recording never blocks the response path: events go through a bounded
// buffer and are dropped, and counted, when the buffer is full.
package audit

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/slighter12/mcp-toolserver-go/logger"
)

// Outcome classifies a dispatched request.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeInvalidRequest Outcome = "invalid_request"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeInvalidParams  Outcome = "invalid_params"
	OutcomeFailure        Outcome = "failure"
)

// Event is a single audit record.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"ts"`
	RequestID any           `json:"request_id"`
	Method    string        `json:"method"`
	Outcome   Outcome       `json:"outcome"`
	Code      int           `json:"code,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// Sink consumes recorded events on the recorder's goroutine.
type Sink func(Event)

// Recorder delivers events to a Sink asynchronously.
type Recorder struct {
	events  chan Event
	sink    Sink
	dropped atomic.Int64
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder with the given buffer size. A nil sink writes
// events to the structured logger.
func NewRecorder(buffer int, sink Sink) *Recorder {
	if buffer < 1 {
		buffer = 1
	}
	if sink == nil {
		sink = LogSink
	}
	r := &Recorder{
		events: make(chan Event, buffer),
		sink:   sink,
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record queues e without blocking and reports whether it was queued. A nil
// recorder discards the event.
func (r *Recorder) Record(e Event) bool {
	if r == nil {
		return false
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return false
	}
	select {
	case r.events <- e:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events were discarded.
func (r *Recorder) Dropped() int64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}

// Close flushes queued events and stops the recorder.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	<-r.done
	if n := r.dropped.Load(); n > 0 {
		logger.Warn("Audit events dropped", "count", n)
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for e := range r.events {
		r.deliver(e)
	}
}

func (r *Recorder) deliver(e Event) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Audit sink panicked", "event_id", e.ID, "panic", rec)
		}
	}()
	r.sink(e)
}

// LogSink writes an event through the structured logger.
func LogSink(e Event) {
	attrs := []any{
		"event_id", e.ID,
		"request_id", e.RequestID,
		"method", e.Method,
		"outcome", string(e.Outcome),
		"duration_ms", e.Duration.Milliseconds(),
	}
	if e.Code != 0 {
		attrs = append(attrs, "code", e.Code)
	}
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}

	switch e.Outcome {
	case OutcomeSuccess:
		logger.Info("RPC dispatched", attrs...)
	case OutcomeFailure:
		logger.Error("RPC failed", attrs...)
	default:
		logger.Warn("RPC rejected", attrs...)
	}
}
