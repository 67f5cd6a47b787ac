// Package queue implements the pending-timer multiset ordered by
// (deadline, id) ascending. Ordering by id second makes the tie-break
// among equal deadlines deterministic: since identifiers increase
// monotonically, equal deadlines pop in insertion order.
package queue

import (
	"time"

	"github.com/huandu/skiplist"
)

type key struct {
	due time.Time
	id  uint64
}

func New() *Queue {
	return &Queue{
		l: skiplist.New(
			skiplist.GreaterThanFunc(func(a, b interface{}) int {
				ka, kb := a.(key), b.(key)
				if ka.due.Before(kb.due) {
					return -1
				} else if ka.due.After(kb.due) {
					return 1
				}
				if ka.id < kb.id {
					return -1
				} else if ka.id > kb.id {
					return 1
				}
				return 0
			}),
		),
	}
}

type Queue struct {
	l *skiplist.SkipList
}

func (q *Queue) Push(id uint64, due time.Time) {
	q.l.Set(key{due: due, id: id}, nil)
}

func (q *Queue) Front() (id uint64, due time.Time, ok bool) {
	e := q.l.Front()
	if e == nil {
		return 0, time.Time{}, false
	}
	k := e.Key().(key)
	return k.id, k.due, true
}

func (q *Queue) PopFront() {
	if e := q.l.Front(); e != nil {
		q.l.Remove(e.Key())
	}
}

func (q *Queue) Len() int {
	return q.l.Len()
}
