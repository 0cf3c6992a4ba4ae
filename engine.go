package asyncio

import "time"

// Timer is the logical clock the engine consumes: Now in milliseconds
// since an arbitrary epoch, and a blocking Sleep. It is the one
// collaborator left external to the core, so tests can swap in a fake
// clock without touching engine or task logic.
type Timer interface {
	// Now returns the current time in milliseconds. It must be monotonic.
	Now() uint64
	// Sleep blocks the calling goroutine for d milliseconds. Sleeping for
	// 0 is a no-op.
	Sleep(d uint64)
}

// RealTimer is a Timer backed by the wall clock, for production use.
type RealTimer struct {
	start time.Time
}

// NewRealTimer creates a RealTimer whose epoch is the moment it is called.
func NewRealTimer() *RealTimer {
	return &RealTimer{start: time.Now()}
}

// Now implements Timer.
func (t *RealTimer) Now() uint64 {
	return uint64(time.Since(t.start).Milliseconds())
}

// Sleep implements Timer.
func (t *RealTimer) Sleep(d uint64) {
	if d == 0 {
		return
	}
	time.Sleep(time.Duration(d) * time.Millisecond)
}

type engineEvent struct {
	due uint64
	fr  *frame
}

// doneChecker is the minimal interface an owned, type-erased task exposes
// to the engine's post-tick sweep.
type doneChecker interface {
	IsDone() bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithEventSink installs sink as the destination for the engine's
// lifecycle events. The default is NopSink.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// Engine is a single-threaded, cooperative scheduler with a timed event
// queue. There is no locking anywhere in this type: a second goroutine
// must never call into the same Engine or any frame it owns while Run or
// RunOneRound is executing.
//
// The event queue is kept as a plain insertion-ordered slice, scanned
// linearly for the least due time and for IsScheduled. A binary heap
// keyed by due time would improve the asymptotics but changes nothing
// observable, so the simpler shape is kept for a scheduler that in
// practice holds a handful of pending events at a time.
type Engine struct {
	clock  Timer
	events []engineEvent
	owned  []doneChecker
	sink   EventSink
}

// NewEngine creates an Engine driven by clock.
func NewEngine(clock Timer, opts ...Option) *Engine {
	e := &Engine{clock: clock, sink: NopSink{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// schedule appends (due, fr) to the event queue. No deduplication happens
// here; callers that need at-most-once scheduling (AwaitTask) check
// IsScheduled first.
func (e *Engine) schedule(fr *frame, due uint64) {
	e.events = append(e.events, engineEvent{due: due, fr: fr})
	e.sink.Event(EventScheduled, fr.id, "due", due)
}

// IsScheduled reports whether fr already has a pending event in e's queue.
func (e *Engine) IsScheduled(fr *frame) bool {
	for _, ev := range e.events {
		if ev.fr == fr {
			return true
		}
	}
	return false
}

// ScheduleTask binds t to e (replacing any engine t was already bound to)
// and schedules it to run after delay elapses on e's clock.
func ScheduleTask[T any](e *Engine, t Task[T], delay time.Duration) {
	t.p.engine = e
	due := e.clock.Now() + uint64(delay.Milliseconds())
	e.schedule(t.fr, due)
}

// TransferOwnership moves t into e's owned-task list. e never calls
// t.Close; it drops its reference to t once t.IsDone(), during the
// post-tick sweep in RunOneRound.
func TransferOwnership[T any](e *Engine, t Task[T]) {
	e.owned = append(e.owned, t)
}

// Run drives RunOneRound until the event queue is empty.
func (e *Engine) Run() {
	for len(e.events) > 0 {
		e.RunOneRound()
	}
}

// RunOneRound executes exactly one tick: it sleeps until the earliest due
// event (if that event is still in the future), resumes every event whose
// due time has now elapsed, in insertion order, then sweeps any owned
// tasks that finished.
func (e *Engine) RunOneRound() {
	if len(e.events) == 0 {
		return
	}

	// Take this round's events out of e.events entirely before resuming
	// anything. A resumed frame's body can reenter schedule (Sleep,
	// AwaitTask's first-schedule-on-await, a completing task's on_finish
	// fan-out) and append to e.events itself; iterating and writing back
	// into that same live field would either overrun the pre-loop
	// snapshot's length or silently drop whatever was appended during the
	// round once the compacted slice is written back. Working off an
	// independent batch, and letting reentrant appends land in a
	// freshly-emptied e.events, keeps every such event.
	batch := e.events
	e.events = nil

	least := batch[0].due
	for _, ev := range batch[1:] {
		if ev.due < least {
			least = ev.due
		}
	}

	now := e.clock.Now()
	if least > now {
		e.clock.Sleep(least - now)
		now = e.clock.Now()
	}

	remaining := make([]engineEvent, 0, len(batch))
	for _, ev := range batch {
		if ev.due <= now {
			e.sink.Event(EventResumed, ev.fr.id, "now", now)
			ev.fr.Resume()
		} else {
			remaining = append(remaining, ev)
		}
	}
	e.events = append(remaining, e.events...)

	kept := e.owned[:0]
	for _, t := range e.owned {
		if t.IsDone() {
			e.sink.Event(EventTaskSwept, 0)
		} else {
			kept = append(kept, t)
		}
	}
	e.owned = kept
}
