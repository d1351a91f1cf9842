package supervisor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/metrics"
)

// Task is one cooperative job. Step does a bounded amount of work and returns how
// long the scheduler should wait before stepping it again.
type Task interface {
	Name() string
	Step(ctx context.Context) (time.Duration, error)
}

type namedTask struct {
	name string
	fn   func(ctx context.Context) (time.Duration, error)
}

func (t *namedTask) Name() string {
	return t.name
}

func (t *namedTask) Step(ctx context.Context) (time.Duration, error) {
	return t.fn(ctx)
}

// NamedTask wraps a step function with a name
func NamedTask(name string, fn func(ctx context.Context) (time.Duration, error)) Task {
	return &namedTask{name: name, fn: fn}
}

type scheduled struct {
	task Task
	next time.Time
}

// Scheduler steps its tasks one at a time on the calling goroutine, always picking
// the task with the earliest wake time. A failing step is logged and the task is
// rescheduled, it never stops the loop.
type Scheduler struct {
	tasks   []*scheduled
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewScheduler(log *zap.Logger, m *metrics.Metrics) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{log: log, metrics: m, now: time.Now}
}

// Add registers tasks, each is due immediately. Add must not be called after Run.
func (obj *Scheduler) Add(tasks ...Task) *Scheduler {
	for _, task := range tasks {
		obj.tasks = append(obj.tasks, &scheduled{task: task, next: obj.now()})
		obj.log.Debug("task added", zap.String("task", task.Name()))
	}
	return obj
}

// Run blocks until ctx is done
func (obj *Scheduler) Run(ctx context.Context) error {
	if len(obj.tasks) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		due := obj.tasks[0]
		for _, s := range obj.tasks[1:] {
			if s.next.Before(due.next) {
				due = s
			}
		}
		wait := due.next.Sub(obj.now())
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		delay, err := due.task.Step(ctx)
		obj.metrics.TaskStep(due.task.Name(), err)
		if err != nil {
			obj.log.Warn("task step failed", zap.String("task", due.task.Name()), zap.Error(err))
		}
		if delay < 0 {
			delay = 0
		}
		due.next = obj.now().Add(delay)
	}
}
