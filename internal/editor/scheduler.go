package editor

// Scheduler defers work to the next tick of the UI loop.
type Scheduler interface {
	Defer(fn func())
}

// Queue is a FIFO task queue drained once per tick. Tasks deferred while a
// flush is running are kept for the following tick, which is what breaks
// publish/handle feedback loops.
type Queue struct {
	tasks   []func()
	stopped bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer enqueues fn. It is a no-op once the queue is stopped.
func (q *Queue) Defer(fn func()) {
	if q.stopped || fn == nil {
		return
	}
	q.tasks = append(q.tasks, fn)
}

// Pending reports whether any task is waiting for the next flush.
func (q *Queue) Pending() bool {
	return !q.stopped && len(q.tasks) > 0
}

// Flush runs the tasks that were queued before the call and returns how
// many ran. A task that stops the queue prevents the rest of the batch.
func (q *Queue) Flush() int {
	batch := q.tasks
	q.tasks = nil
	ran := 0
	for _, fn := range batch {
		if q.stopped {
			break
		}
		fn()
		ran++
	}
	return ran
}

// Stop discards queued tasks and turns later Defer calls into no-ops.
func (q *Queue) Stop() {
	q.stopped = true
	q.tasks = nil
}

// Stopped reports whether Stop has been called.
func (q *Queue) Stopped() bool {
	return q.stopped
}
