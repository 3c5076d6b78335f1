package scheduler

import "log/slog"

// MicrotaskLoopCap bounds how many microtasks a single Tick may run.
// Microtasks may enqueue further microtasks; past the cap the remainder
// is deferred to the next Tick and a warning is issued.
const MicrotaskLoopCap = 1000

// Task is a unit of platform-tier work. Tasks run at most once.
type Task func()

// taskQueue is a plain FIFO. Single-threaded, so no locking.
type taskQueue struct {
	items []Task
}

func (q *taskQueue) push(t Task) {
	q.items = append(q.items, t)
}

func (q *taskQueue) pop() (Task, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

func (q *taskQueue) len() int {
	return len(q.items)
}

// TaskRunner paces platform-tier tasks across three tiers: microtasks,
// effects and layout effects, drained in that order on each Tick.
type TaskRunner struct {
	micro   taskQueue
	effects taskQueue
	layout  taskQueue

	ticking    bool
	yieldAsked bool

	logger *slog.Logger
}

// NewTaskRunner creates an empty task runner.
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{logger: slog.Default()}
}

// SetLogger replaces the logger used for warnings.
func (r *TaskRunner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// EnqueueMicrotask schedules a task on the microtask tier.
func (r *TaskRunner) EnqueueMicrotask(t Task) {
	if t != nil {
		r.micro.push(t)
	}
}

// EnqueueEffect schedules a task on the effect tier.
func (r *TaskRunner) EnqueueEffect(t Task) {
	if t != nil {
		r.effects.push(t)
	}
}

// EnqueueLayoutEffect schedules a task on the layout-effect tier.
func (r *TaskRunner) EnqueueLayoutEffect(t Task) {
	if t != nil {
		r.layout.push(t)
	}
}

// Pending returns the total number of queued tasks across tiers.
func (r *TaskRunner) Pending() int {
	return r.micro.len() + r.effects.len() + r.layout.len()
}

// RequestYield records a cooperative yield hint. It never interrupts a
// running task; hosts may consult YieldRequested between ticks to pace
// frames.
func (r *TaskRunner) RequestYield() {
	r.yieldAsked = true
}

// YieldRequested reports and clears the yield hint.
func (r *TaskRunner) YieldRequested() bool {
	asked := r.yieldAsked
	r.yieldAsked = false
	return asked
}

// Tick drains the three tiers in order: microtasks run to empty first
// (they may re-enqueue microtasks, bounded by MicrotaskLoopCap), then
// queued effects, then layout effects. A re-entrant Tick is a no-op.
func (r *TaskRunner) Tick() {
	if r.ticking {
		return
	}
	r.ticking = true
	defer func() { r.ticking = false }()

	ran := 0
	for {
		t, ok := r.micro.pop()
		if !ok {
			break
		}
		t()
		ran++
		if ran >= MicrotaskLoopCap {
			r.logger.Warn("microtask loop cap reached, deferring remainder",
				"cap", MicrotaskLoopCap,
				"deferred", r.micro.len(),
			)
			break
		}
	}

	// Effect tiers drain their snapshot length: tasks enqueued by a
	// running effect land in the next tick.
	for n := r.effects.len(); n > 0; n-- {
		t, _ := r.effects.pop()
		t()
	}
	for n := r.layout.len(); n > 0; n-- {
		t, _ := r.layout.pop()
		t()
	}
}
