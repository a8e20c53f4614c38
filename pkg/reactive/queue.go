package reactive

import "sort"

// JobQueue is a host job queue for effect schedulers. Queue is idempotent
// until the effect runs, so an effect triggered by many writes runs once
// per Flush. An effect that is queued again after it already ran in the
// current flush is kept for the next one.
type JobQueue struct {
	queue    []*Effect
	queued   map[*Effect]struct{}
	flushing bool
}

// NewJobQueue creates an empty queue.
func NewJobQueue() *JobQueue {
	return &JobQueue{queued: make(map[*Effect]struct{})}
}

// Queue schedules e. It has the scheduler signature, so it can be passed
// straight to WithScheduler.
func (q *JobQueue) Queue(e *Effect) {
	if _, ok := q.queued[e]; ok {
		return
	}
	q.queued[e] = struct{}{}
	q.queue = append(q.queue, e)
}

// Invalidate removes e from the queue, for callers that just ran it
// directly.
func (q *JobQueue) Invalidate(e *Effect) {
	if _, ok := q.queued[e]; !ok {
		return
	}
	delete(q.queued, e)
	for i, job := range q.queue {
		if job == e {
			q.queue[i] = nil
			return
		}
	}
}

// Pending reports whether e is waiting to run.
func (q *JobQueue) Pending(e *Effect) bool {
	_, ok := q.queued[e]
	return ok
}

// Len returns the number of queued effects.
func (q *JobQueue) Len() int {
	return len(q.queued)
}

// Flush runs the queued effects in creation order (parents before the
// children they created) and returns how many ran. Effects queued while
// flushing run in the same flush unless they already ran in it.
func (q *JobQueue) Flush() int {
	if q.flushing {
		return 0
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	sort.SliceStable(q.queue, func(i, j int) bool {
		a, b := q.queue[i], q.queue[j]
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.id < b.id
	})

	ran := make(map[*Effect]struct{})
	var deferred []*Effect
	n := 0
	for i := 0; i < len(q.queue); i++ {
		e := q.queue[i]
		if e == nil {
			continue
		}
		delete(q.queued, e)
		if _, done := ran[e]; done {
			deferred = append(deferred, e)
			continue
		}
		ran[e] = struct{}{}
		if e.Active() {
			e.Run()
			n++
		}
	}
	q.queue = q.queue[:0]
	for _, e := range deferred {
		q.Queue(e)
	}
	return n
}

// QueueScheduler returns a scheduler that defers reruns to q.
func QueueScheduler(q *JobQueue) func(*Effect) {
	return q.Queue
}
