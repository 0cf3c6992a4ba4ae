// Package asyncio implements a single-threaded, cooperative async runtime
// built from three cooperating abstractions: generators (lazy, restartable
// producers of values with optional bidirectional send and transparent
// nesting), tasks (futures scheduled by an engine that may suspend on
// timers or on other tasks), and an engine (the logical-clock scheduler
// that drives tasks to completion).
//
// Go has no compiler-level stackless coroutine, so every generator and
// task is backed by one goroutine parked on an unbuffered channel until
// resumed; see frame.go. Callers never see that goroutine directly.
package asyncio
