package asyncio

import "errors"

// Sentinel errors for this package's programmer-misuse and environment
// conditions. Misuse errors are returned from the operation that detects
// the misuse rather than panicking, since the caller is always in a
// position to recover from them.
var (
	// ErrDoubleAwait is returned by AwaitGenerator when a generator tries to
	// chain a second nested generator while an earlier one has not finished.
	ErrDoubleAwait = errors.New("asyncio: a frame awaits a second one before the first has finished")

	// ErrResumeUnfinished is returned by Result when a generator has not
	// finished yet.
	ErrResumeUnfinished = errors.New("asyncio: Result called on a generator that has not finished")

	// ErrNoValueReturned is returned when a frame finished without ever
	// producing the value the caller asked for.
	ErrNoValueReturned = errors.New("asyncio: frame finished without returning a value")

	// ErrNoEngine is returned by AwaitTask when an unfinished task is
	// awaited and neither it nor its awaiter is bound to an engine.
	ErrNoEngine = errors.New("asyncio: task has no engine bound")

	// ErrHangingTask is returned by Task.Close, and reported through the
	// package's hanging-task sink by a finalizer, when a task was never
	// awaited or handed to an engine; see task.go.
	ErrHangingTask = errors.New("asyncio: task was dropped without being awaited or scheduled")

	// ErrNotImplemented marks an operation this package deliberately does
	// not support.
	ErrNotImplemented = errors.New("asyncio: not implemented")
)
