package frame

import (
	"fmt"
	"io"
	"sync"
)

// EventKind categorizes model events. One event is emitted per
// state-changing sub-step (link, adjustment, normalization, propagation,
// perturbation, seal transitions, graph-level checks).
type EventKind string

const (
	EventLink       EventKind = "link"
	EventAdjust     EventKind = "adjust"
	EventNormalize  EventKind = "normalize"
	EventPropagate  EventKind = "propagate"
	EventPerturb    EventKind = "perturb"
	EventUnseal     EventKind = "unseal"
	EventSeal       EventKind = "seal"
	EventAutoReseal EventKind = "auto_reseal"
	EventGrow       EventKind = "grow"
	EventStability  EventKind = "stability"
	EventDivergence EventKind = "divergence"
	EventCoherence  EventKind = "coherence"
	EventDepthLimit EventKind = "depth_limit"
)

// Event is a single model event. Seq comes from the shared logical clock,
// Source is the id of the frame or boundary the event is scoped to.
type Event struct {
	Seq    int64     `json:"seq"`
	Kind   EventKind `json:"kind"`
	Source string    `json:"source"`
	Msg    string    `json:"msg"`
}

// String renders the event with a source-scoped prefix.
func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Source, e.Msg)
}

// EventSink receives model events. The model never writes to stdout or a
// global logger; output targets are the driver's concern. Implementations
// must not mutate the model from Emit.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(Event)

// Emit implements EventSink.
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard is an EventSink that drops all events.
var Discard EventSink = SinkFunc(func(Event) {})

// Recorder is an in-memory EventSink used by the scenario harness and tests.
//
// Thread-safety: safe for concurrent use via internal mutex, although the
// single-actor model means contention does not normally occur.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements EventSink.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a snapshot copy of all recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// WriterSink writes each event as one line to w, prefixed with the event
// source. This is the driver-layer fallback target ("[frame-1] scale damped
// to 0.950"); library code never installs it implicitly.
type WriterSink struct {
	W io.Writer
}

// Emit implements EventSink.
func (s WriterSink) Emit(ev Event) {
	fmt.Fprintln(s.W, ev.String())
}

// Emitter pairs an EventSink with the shared logical clock. Frames and
// boundaries hold an emitter and stamp every event through it.
type Emitter struct {
	clock *Clock
	sink  EventSink
}

// NewEmitter creates an emitter with a fresh clock. A nil sink discards.
func NewEmitter(sink EventSink) *Emitter {
	return NewEmitterWithClock(sink, NewClock())
}

// NewEmitterWithClock creates an emitter sharing an existing clock.
// A nil sink discards.
func NewEmitterWithClock(sink EventSink, clock *Clock) *Emitter {
	if sink == nil {
		sink = Discard
	}
	return &Emitter{clock: clock, sink: sink}
}

// Clock returns the emitter's logical clock.
func (e *Emitter) Clock() *Clock {
	return e.clock
}

// Emit stamps and delivers one event.
func (e *Emitter) Emit(kind EventKind, source, format string, args ...any) {
	e.sink.Emit(Event{
		Seq:    e.clock.Next(),
		Kind:   kind,
		Source: source,
		Msg:    fmt.Sprintf(format, args...),
	})
}
