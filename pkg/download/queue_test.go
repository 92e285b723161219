package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue_PriorityOrdering(t *testing.T) {
	q := newTaskQueue()
	q.push(&Task{ID: "low", Priority: PriorityLow})
	q.push(&Task{ID: "critical", Priority: PriorityCritical})
	q.push(&Task{ID: "normal", Priority: PriorityNormal})
	q.push(&Task{ID: "high", Priority: PriorityHigh})

	order := []string{}
	for q.len() > 0 {
		task, ok := q.pop()
		require.True(t, ok)
		order = append(order, task.ID)
	}
	assert.Equal(t, []string{"critical", "high", "normal", "low"}, order)
}

func TestTaskQueue_FIFOWithinSamePriority(t *testing.T) {
	q := newTaskQueue()
	q.push(&Task{ID: "first", Priority: PriorityNormal})
	q.push(&Task{ID: "second", Priority: PriorityNormal})
	q.push(&Task{ID: "third", Priority: PriorityNormal})

	var order []string
	for q.len() > 0 {
		task, _ := q.pop()
		order = append(order, task.ID)
	}
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestTaskQueue_PopEmptyReturnsFalse(t *testing.T) {
	q := newTaskQueue()
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestTaskQueue_Remove(t *testing.T) {
	q := newTaskQueue()
	q.push(&Task{ID: "a"})
	q.push(&Task{ID: "b"})

	assert.True(t, q.remove("a"))
	assert.False(t, q.remove("a"))
	assert.Equal(t, 1, q.len())

	task, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "b", task.ID)
}
