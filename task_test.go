package asyncio

import (
	"testing"
	"time"

	"github.com/zjkmxy/asyncio-go/internal/manualtimer"
)

func TestTaskScheduleAndRun(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)

	var ran bool
	task := NewTask(func(c *TaskCtx[int]) int {
		ran = true
		return 42
	})
	ScheduleTask(e, task, 0)
	e.Run()

	if !ran {
		t.Fatal("task body never ran")
	}
	if !task.IsDone() {
		t.Fatal("task should be done after Run")
	}
}

// TestTaskSleep covers S5: a task that sleeps must not resume until the
// clock has advanced by at least the requested duration.
func TestTaskSleep(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)

	var awake uint64
	task := NewTask(func(c *TaskCtx[struct{}]) struct{} {
		c.Sleep(100 * time.Millisecond)
		awake = clock.Now()
		return struct{}{}
	})
	ScheduleTask(e, task, 0)
	e.Run()

	if awake < 100 {
		t.Fatalf("task resumed at t=%d, want >= 100", awake)
	}
}

// TestAwaitTaskOrdering covers S6: two tasks awaiting the same inner task
// must both observe its result, resumed in the order they registered as
// continuations (on_finish is FIFO).
func TestAwaitTaskOrdering(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)

	inner := NewTask(func(c *TaskCtx[int]) int {
		c.Sleep(10 * time.Millisecond)
		return 7
	})

	var order []string
	outer1 := NewTask(func(c *TaskCtx[int]) int {
		v, err := AwaitTask(c, inner)
		if err != nil {
			t.Errorf("outer1 AwaitTask: %v", err)
		}
		order = append(order, "outer1")
		return v
	})
	outer2 := NewTask(func(c *TaskCtx[int]) int {
		v, err := AwaitTask(c, inner)
		if err != nil {
			t.Errorf("outer2 AwaitTask: %v", err)
		}
		order = append(order, "outer2")
		return v
	})

	ScheduleTask(e, outer1, 0)
	ScheduleTask(e, outer2, 0)
	e.Run()

	if len(order) != 2 || order[0] != "outer1" || order[1] != "outer2" {
		t.Fatalf("resume order = %v, want [outer1 outer2]", order)
	}

	r1, err := AwaitTask(&TaskCtx[int]{p: &taskPromise[int]{engine: e}}, outer1)
	if err != nil || r1 != 7 {
		t.Fatalf("outer1 result = (%v, %v), want (7, nil)", r1, err)
	}
	r2, err := AwaitTask(&TaskCtx[int]{p: &taskPromise[int]{engine: e}}, outer2)
	if err != nil || r2 != 7 {
		t.Fatalf("outer2 result = (%v, %v), want (7, nil)", r2, err)
	}
}

func TestAwaitTaskNoEngine(t *testing.T) {
	inner := NewTask(func(c *TaskCtx[int]) int { return 1 })
	ctx := &TaskCtx[int]{p: &taskPromise[int]{}}
	if _, err := AwaitTask(ctx, inner); err != ErrNoEngine {
		t.Fatalf("AwaitTask with no engine bound anywhere = %v, want ErrNoEngine", err)
	}
}

func TestTaskCloseHanging(t *testing.T) {
	task := NewTask(func(c *TaskCtx[int]) int { return 1 })
	if err := task.Close(); err != ErrHangingTask {
		t.Fatalf("Close() on a never-scheduled task = %v, want ErrHangingTask", err)
	}
}

func TestTaskCloseScheduled(t *testing.T) {
	clock := &manualtimer.Timer{}
	e := NewEngine(clock)
	task := NewTask(func(c *TaskCtx[int]) int { return 1 })
	ScheduleTask(e, task, 0)
	e.Run()
	if err := task.Close(); err != nil {
		t.Fatalf("Close() on a scheduled, finished task = %v, want nil", err)
	}
}
