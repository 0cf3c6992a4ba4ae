package asyncio

import (
	"testing"
	"time"

	"github.com/zjkmxy/asyncio-go/internal/manualtimer"
)

func TestEngineRunOneRoundOrdering(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		task := NewTask(func(c *TaskCtx[struct{}]) struct{} {
			order = append(order, i)
			return struct{}{}
		})
		ScheduleTask(e, task, 0)
	}
	e.RunOneRound()

	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestEngineIsScheduled(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)
	task := NewTask(func(c *TaskCtx[int]) int { return 1 })

	if e.IsScheduled(task.fr) {
		t.Fatal("task should not be scheduled yet")
	}
	ScheduleTask(e, task, 0)
	if !e.IsScheduled(task.fr) {
		t.Fatal("task should be scheduled after ScheduleTask")
	}
	e.Run()
	if e.IsScheduled(task.fr) {
		t.Fatal("task should no longer be scheduled after it has run")
	}
}

func TestEngineRunEmpty(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)
	e.Run() // must not block or panic on an empty queue
	e.RunOneRound()
}

func TestEngineTransferOwnershipSweep(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)
	task := NewTask(func(c *TaskCtx[int]) int { return 1 })
	TransferOwnership(e, task)
	ScheduleTask(e, task, 0)

	if len(e.owned) != 1 {
		t.Fatalf("owned = %d tasks, want 1", len(e.owned))
	}
	e.Run()
	if len(e.owned) != 0 {
		t.Fatalf("owned after sweep = %d tasks, want 0", len(e.owned))
	}
}

func TestEngineWithEventSinkRecordsEvents(t *testing.T) {
	clock := &manualtimer.Timer{}
	rec := &recordingSink{}
	e := NewEngine(clock, WithEventSink(rec))

	task := NewTask(func(c *TaskCtx[int]) int { return 1 })
	ScheduleTask(e, task, 0)
	e.Run()

	if len(rec.kinds) == 0 {
		t.Fatal("expected at least one recorded event")
	}
	sawScheduled, sawResumed, sawCompleted := false, false, false
	for _, k := range rec.kinds {
		switch k {
		case EventScheduled:
			sawScheduled = true
		case EventResumed:
			sawResumed = true
		case EventTaskCompleted:
			sawCompleted = true
		}
	}
	if !sawScheduled || !sawResumed || !sawCompleted {
		t.Fatalf("recorded kinds = %v, missing one of scheduled/resumed/completed", rec.kinds)
	}
}

type recordingSink struct {
	kinds []EventKind
}

func (r *recordingSink) Event(kind EventKind, frameID uint64, fields ...any) {
	r.kinds = append(r.kinds, kind)
}

func TestEngineSleepAdvancesClock(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)

	task := NewTask(func(c *TaskCtx[struct{}]) struct{} {
		c.Sleep(50 * time.Millisecond)
		return struct{}{}
	})
	ScheduleTask(e, task, 0)
	e.Run()

	if clock.Now() < 50 {
		t.Fatalf("clock.Now() = %d, want >= 50", clock.Now())
	}
}
