package local

import (
	"container/heap"
	"time"

	"devotional/internal/notify"
)

type entry struct {
	reg notify.Registration
	at  time.Time
}

// queue orders entries by firing time. Deleted or replaced entries stay in
// the backing array until they reach the top; the map holds the live ones.
type queue struct {
	backingArray []*entry
	entries      map[string]*entry
}

func newQueue() *queue {
	q := &queue{
		backingArray: []*entry{},
		entries:      make(map[string]*entry),
	}
	heap.Init(q)
	return q
}

func (q queue) Len() int {
	return len(q.backingArray)
}

func (q queue) Less(i, j int) bool {
	return q.backingArray[i].at.Before(q.backingArray[j].at)
}

func (q queue) Swap(i, j int) {
	q.backingArray[i], q.backingArray[j] = q.backingArray[j], q.backingArray[i]
}

func (q *queue) Push(x any) {
	e, ok := x.(*entry)
	if !ok {
		return
	}
	q.entries[e.reg.ID] = e
	q.backingArray = append(q.backingArray, e)
}

func (q *queue) Pop() any {
	n := len(q.backingArray)
	if n == 0 {
		return nil
	}
	e := q.backingArray[n-1]
	q.backingArray[n-1] = nil
	q.backingArray = q.backingArray[:n-1]
	if q.entries[e.reg.ID] == e {
		delete(q.entries, e.reg.ID)
	}
	return e
}

func (q *queue) live(e *entry) bool {
	return q.entries[e.reg.ID] == e
}

// Delete drops the live entry for id
func (q *queue) Delete(id string) {
	delete(q.entries, id)
}

// Peek returns the earliest live entry, discarding stale ones on the way
func (q *queue) Peek() *entry {
	for len(q.backingArray) > 0 {
		top := q.backingArray[0]
		if q.live(top) {
			return top
		}
		heap.Pop(q)
	}
	return nil
}
