package asyncio

import (
	"runtime"
	"time"
)

// taskPromise holds the per-frame state specific to a task: its result
// once done, the engine it is bound to (nil until schedule_task or the
// first await binds it), the continuations waiting on it, and whether it
// has ever been awaited.
type taskPromise[T any] struct {
	result    *T
	engine    *Engine
	onFinish  []*frame
	coAwaited bool
}

// taskOwner is a finalizer target distinct from taskPromise. taskPromise
// is captured by the task's own goroutine for as long as that goroutine is
// alive, so it can never become unreachable while the task is still
// pending; taskOwner is referenced only by the Task value(s) the caller
// holds, so it goes unreachable exactly when the caller drops its last
// reference to the task, which is the moment a hanging task needs to be
// detected.
type taskOwner struct{}

// TaskCtx is passed to a task's body function and is the only way the
// body can sleep or await another task.
type TaskCtx[T any] struct {
	fr *frame
	p  *taskPromise[T]
}

// Task is a one-shot asynchronous computation scheduled by an Engine. Like
// Generator it is a small value type wrapping pointers to shared frame and
// promise state.
type Task[T any] struct {
	fr    *frame
	p     *taskPromise[T]
	owner *taskOwner
}

// NewTask creates a task, allocating its frame in the initially-suspended
// state. The task will not run until it is scheduled (ScheduleTask) or
// awaited (AwaitTask), at either of which point it is bound to an engine.
func NewTask[T any](body func(*TaskCtx[T]) T) Task[T] {
	p := &taskPromise[T]{}
	ctx := &TaskCtx[T]{p: p}
	fr := newFrame(nextID(), func() {
		defer func() {
			if p.engine == nil {
				// Unreachable through the public API: a task frame is only
				// ever resumed by an engine, and every path that resumes a
				// task binds it first. Guarded anyway so a completed,
				// unbound task fails safe instead of panicking.
				return
			}
			if fr.err != nil {
				p.engine.sink.Event(EventTaskCompleted, fr.id, "error", fr.err.Error())
			} else {
				p.engine.sink.Event(EventTaskCompleted, fr.id)
			}
			for _, h := range p.onFinish {
				p.engine.schedule(h, 0)
			}
		}()
		r := body(ctx)
		p.result = &r
	})
	ctx.fr = fr

	owner := &taskOwner{}
	runtime.SetFinalizer(owner, func(*taskOwner) {
		if !p.coAwaited && p.engine == nil {
			defaultHangingTaskSink.Event(EventTaskHanging, fr.id, "reason", ErrHangingTask.Error())
		}
	})

	return Task[T]{fr: fr, p: p, owner: owner}
}

// defaultHangingTaskSink receives the (rare, GC-timed) hanging-task
// warning when a Task is garbage-collected without ever having been
// awaited or bound to an engine, whether or not Close was called on it.
// Close reports the same condition synchronously, as ErrHangingTask.
var defaultHangingTaskSink EventSink = NopSink{}

// SetHangingTaskSink installs where finalizer-detected hanging tasks are
// reported. It is a package-level knob because the finalizer callback has
// no way to reach a per-engine sink: by the time it runs, the task may
// never have been bound to an engine at all.
func SetHangingTaskSink(sink EventSink) {
	if sink == nil {
		sink = NopSink{}
	}
	defaultHangingTaskSink = sink
}

// ID returns t's unique, monotonically increasing frame id.
func (t Task[T]) ID() uint64 { return t.fr.id }

// IsDone reports whether t's body has returned.
func (t Task[T]) IsDone() bool { return t.fr.Done() }

// SetEngine binds t to e without scheduling it. ScheduleTask performs
// the same binding itself before it schedules the task's first resume.
func (t Task[T]) SetEngine(e *Engine) { t.p.engine = e }

// Close reports ErrHangingTask if t was never awaited and never bound to
// an engine, i.e. its frame would leak if dropped now. Since Go has no
// destructors, calling Close explicitly is the deterministic alternative
// to the finalizer-based leak report SetHangingTaskSink installs.
func (t Task[T]) Close() error {
	if !t.p.coAwaited && t.p.engine == nil {
		return ErrHangingTask
	}
	return nil
}

// Sleep suspends the task until at least d has elapsed on its engine's
// clock. It must only be called from inside the task's own body.
func (c *TaskCtx[T]) Sleep(d time.Duration) {
	e := c.p.engine
	due := e.clock.Now() + uint64(d.Milliseconds())
	e.schedule(c.fr, due)
	c.fr.suspend()
}

// AwaitTask suspends the currently-executing task ctx until other
// completes, then returns other's result. If other has no engine bound
// yet, it is bound to ctx's own engine: the caller, by construction, is
// always already running under some engine, so that engine is always
// available and always the right one to bind an as-yet-unbound callee to.
// If other is not yet scheduled, it is scheduled to run on the next tick.
func AwaitTask[T, U any](ctx *TaskCtx[T], other Task[U]) (U, error) {
	var zero U
	op := other.p

	if !other.fr.Done() {
		if op.engine == nil {
			if ctx.p.engine == nil {
				return zero, ErrNoEngine
			}
			op.engine = ctx.p.engine
		}
		if !op.engine.IsScheduled(other.fr) {
			op.engine.schedule(other.fr, 0)
		}
		op.coAwaited = true
		op.onFinish = append(op.onFinish, ctx.fr)
		ctx.fr.suspend()
	}

	op.coAwaited = true
	if other.fr.err != nil {
		return zero, other.fr.err
	}
	if op.result == nil {
		return zero, ErrNoValueReturned
	}
	return *op.result, nil
}
