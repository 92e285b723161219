package download

import "container/heap"

// priorityQueue orders *Task by Priority descending, then by enqueue
// sequence ascending (FIFO among equal priorities), per spec §4.4.
type priorityQueue []*Task

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].seq < q[j].seq
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) {
	*q = append(*q, x.(*Task))
}

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// taskQueue wraps priorityQueue behind heap.Interface, assigning a
// monotonic sequence number to each pushed task so FIFO ordering among
// equal priorities is stable regardless of heap internals.
type taskQueue struct {
	heap priorityQueue
	next uint64
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{heap: make(priorityQueue, 0)}
	heap.Init(&q.heap)
	return q
}

func (q *taskQueue) push(t *Task) {
	t.seq = q.next
	q.next++
	heap.Push(&q.heap, t)
}

func (q *taskQueue) pop() (*Task, bool) {
	if q.heap.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.heap).(*Task), true
}

func (q *taskQueue) len() int { return q.heap.Len() }

// remove drops a task by id if still queued, returning whether it was
// found. Used by Cancel to prevent a not-yet-started task from ever
// running.
func (q *taskQueue) remove(id string) bool {
	for i, t := range q.heap {
		if t.ID == id {
			heap.Remove(&q.heap, i)
			return true
		}
	}
	return false
}
