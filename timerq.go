package timerq

import (
	"io"
	"time"

	"github.com/romshark/timerq/internal/mpsc"
	"github.com/romshark/timerq/internal/queue"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

type (
	Time     = time.Time
	Duration = time.Duration
)

const (
	Nanosecond  = time.Nanosecond
	Microsecond = time.Microsecond
	Millisecond = time.Millisecond
	Second      = time.Second
	Minute      = time.Minute
	Hour        = time.Hour
)

// TimerID identifies a started timer.
// Identifiers are scoped to the Handle that issued them,
// start at 0 and increase strictly monotonically; they are never reused.
type TimerID uint64

// Timer is a single armed sleep that fires on C
// once its duration elapsed and can be re-armed in place.
type Timer interface {
	C() <-chan Time
	Reset(Duration) bool
	Stop() bool
}

// TimeProvider abstracts the clock and the sleep primitive
// so that both can be replaced in tests.
type TimeProvider interface {
	Now() Time
	NewTimer(Duration) Timer
}

// Queue is a multiset of pending timers ordered by deadline.
// Entries sharing a deadline are ordered by ascending TimerID,
// which for a single Handle equals insertion order.
type Queue interface {
	Push(id TimerID, due Time)
	Front() (id TimerID, due Time, ok bool)
	PopFront()
	Len() int
}

// request travels from a Handle to its Worker.
type request struct {
	id  TimerID
	due Time
}

// New creates a connected Handle and Worker pair
// using the system clock and the default queue.
//
// The Worker must be driven by calling Run and must stay alive
// for as long as the Handle issues timers.
func New() (*Handle, *Worker) {
	return NewWith(nil, nil, nil, nil)
}

// NewWith is similar to New but replaces the default time provider,
// queue, logger and metrics.
// If t == nil then the standard time package is used by default.
// If q == nil then internal/queue.Queue is used by default.
// If log == nil then logging is disabled.
// If m == nil then no metrics are recorded.
func NewWith(
	t TimeProvider,
	q Queue,
	log logrus.FieldLogger,
	m *Metrics,
) (*Handle, *Worker) {
	if t == nil {
		t = timeProvider{}
	}
	if q == nil {
		q = defaultQueue{queue.New()}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("engine", ksuid.New().String())

	requests := mpsc.New[request]()
	h := &Handle{
		provider: t,
		requests: requests,
		metrics:  m,
	}
	w := &Worker{
		provider: t,
		queue:    q,
		log:      log,
		metrics:  m,
		requests: requests,
		announce: mpsc.New[TimerID](),
	}
	return h, w
}

// defaultQueue adapts internal/queue to the Queue interface.
type defaultQueue struct{ q *queue.Queue }

func (d defaultQueue) Push(id TimerID, due Time) { d.q.Push(uint64(id), due) }

func (d defaultQueue) Front() (TimerID, Time, bool) {
	id, due, ok := d.q.Front()
	return TimerID(id), due, ok
}

func (d defaultQueue) PopFront() { d.q.PopFront() }

func (d defaultQueue) Len() int { return d.q.Len() }
