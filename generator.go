package asyncio

import "iter"

// genPromise holds the per-frame state specific to a generator: the value
// most recently produced by Yield, the value returned when the body
// finishes, and a handle to whatever nested generator is currently chained
// in (see AwaitGenerator). A generator with no meaningful return value and
// one that returns a real value share this same type, with R fixed to
// struct{} in the former case, rather than being two separate types.
type genPromise[Y, R any] struct {
	yielded  *Y
	returned *R
	nested   interface{ IsDone() bool }
}

// GenCtx is passed to a generator's body function and is the only way the
// body can yield values, read what was sent back, or delegate to a nested
// generator.
type GenCtx[Y, S, R any] struct {
	fr   *frame
	p    *genPromise[Y, R]
	send *S
}

// Yield records v as the generator's current value and suspends until the
// consumer calls Next or Send again. It returns whatever the consumer most
// recently passed to Send (or the zero value of S if this is not a
// send-generator, or nothing has been sent yet).
func (c *GenCtx[Y, S, R]) Yield(v Y) S {
	c.p.yielded = &v
	c.fr.suspend()
	return *c.send
}

// Generator is a lazy, restartable producer of Y values. It owns a frame
// (allocated on construction, initially suspended) and is a small value
// type wrapping pointers to that frame's state, so copies of a Generator
// all observe the same underlying execution.
type Generator[Y, S, R any] struct {
	fr   *frame
	p    *genPromise[Y, R]
	send *S
}

func newGenerator[Y, S, R any](body func(*GenCtx[Y, S, R]) R) Generator[Y, S, R] {
	p := &genPromise[Y, R]{}
	var sendSlot S
	ctx := &GenCtx[Y, S, R]{p: p, send: &sendSlot}
	fr := newFrame(nextID(), func() {
		r := body(ctx)
		p.returned = &r
	})
	ctx.fr = fr
	return Generator[Y, S, R]{fr: fr, p: p, send: &sendSlot}
}

// NewGenerator creates a generator whose body cannot receive values
// through Yield's return value (S is fixed to struct{}); use
// NewSendGenerator for the bidirectional variant. R may itself be
// struct{} for a generator with no meaningful return value.
func NewGenerator[Y, R any](body func(*GenCtx[Y, struct{}, R]) R) Generator[Y, struct{}, R] {
	return newGenerator[Y, struct{}, R](body)
}

// NewSendGenerator creates a send-capable generator: each call to Yield
// inside body returns the value most recently passed to Send.
//
// A send-generator cannot be awaited from inside another generator's
// body; AwaitGenerator's signature enforces this at compile time by
// requiring its inner argument to have send type struct{}, so passing a
// Generator[Y, S, R] with S != struct{} simply does not type-check.
func NewSendGenerator[Y, S, R any](body func(*GenCtx[Y, S, R]) R) Generator[Y, S, R] {
	return newGenerator[Y, S, R](body)
}

// ID returns g's unique, monotonically increasing frame id.
func (g Generator[Y, S, R]) ID() uint64 { return g.fr.id }

// IsDone reports whether g's body has returned.
func (g Generator[Y, S, R]) IsDone() bool { return g.fr.Done() }

// Err returns the error captured from a panic inside g's body, if any.
// It is nil until g is done.
func (g Generator[Y, S, R]) Err() error { return g.fr.err }

// Next resumes g until its next Yield or until it returns, whichever
// comes first. It reports (value, true) for a yield, or (zero, false) once
// g is done. Calling Next again after it has reported done keeps
// reporting done.
func (g Generator[Y, S, R]) Next() (Y, bool) {
	var zero Y
	if g.fr.Done() {
		return zero, false
	}
	g.fr.Resume()
	if g.fr.Done() {
		return zero, false
	}
	return *g.p.yielded, true
}

// Send places v where the next Yield inside g's body will observe it, then
// drives g exactly like Next. Calling Send before g has ever run (i.e.
// before the first Next/Send) delivers v to the very first Yield.
func (g Generator[Y, S, R]) Send(v S) (Y, bool) {
	*g.send = v
	return g.Next()
}

// Result returns the value g's body returned. It fails with
// ErrResumeUnfinished if g has not finished, with g's Err if the body
// panicked before returning, or with ErrNoValueReturned if g finished
// without a recorded return value.
func (g Generator[Y, S, R]) Result() (R, error) {
	var zero R
	if !g.fr.Done() {
		return zero, ErrResumeUnfinished
	}
	if g.fr.err != nil {
		return zero, g.fr.err
	}
	if g.p.returned == nil {
		return zero, ErrNoValueReturned
	}
	return *g.p.returned, nil
}

// Seq adapts g to Go's range-over-func iteration, so a generator can be
// driven with `for v := range g.Seq() { ... }` instead of calling Next by
// hand.
func (g Generator[Y, S, R]) Seq() iter.Seq[Y] {
	return func(yield func(Y) bool) {
		for {
			v, ok := g.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// AwaitGenerator delegates the currently-executing generator ctx to inner,
// streaming every value inner yields out as if it were yielded directly by
// ctx's own generator (yield-from), then returns whatever inner's body
// returned.
//
// Because a frame here is a real goroutine, the delegation loop below only
// suspends ctx's frame when there is an actual value to hand the outer
// consumer; when inner finishes without ever yielding, the loop simply
// falls through to whatever ctx's body does next, in the same Resume
// call, instead of needing a separate flag to remember that the previous
// suspension produced nothing to show.
func AwaitGenerator[Y, S, R, RI any](ctx *GenCtx[Y, S, R], inner Generator[Y, struct{}, RI]) (RI, error) {
	var zero RI
	if ctx.p.nested != nil {
		return zero, ErrDoubleAwait
	}
	ctx.p.nested = inner
	defer func() { ctx.p.nested = nil }()

	for {
		v, ok := inner.Next()
		if !ok {
			break
		}
		ctx.p.yielded = &v
		ctx.fr.suspend()
	}

	if err := inner.Err(); err != nil {
		return zero, err
	}
	return inner.Result()
}
