package timerq

import (
	"github.com/romshark/timerq/internal/mpsc"

	"github.com/sirupsen/logrus"
)

// Worker owns all scheduling state: the deadline queue, at most one
// armed timer and both channel endpoints. It coalesces every pending
// timer into that single armed timer, re-arming it only when a
// strictly earlier deadline appears.
type Worker struct {
	provider TimeProvider
	queue    Queue
	log      logrus.FieldLogger
	metrics  *Metrics
	requests *mpsc.Chan[request]
	announce *mpsc.Chan[TimerID]
	armed    *armedSleep
}

// armedSleep pairs the armed timer with the deadline it was armed for.
// The deadline may be stale until the next drive cycle re-evaluates it.
type armedSleep struct {
	due   Time
	timer Timer
}

// Run drives the Worker until the request channel is closed and
// drained. It blocks and must be called from exactly one goroutine.
//
// Each loop iteration is one drive cycle: announce every entry whose
// deadline has passed, arm a timer for the earliest remaining deadline
// if none is armed, then wait for either the timer to fire or new
// requests to arrive. An armed timer is reset in place when a request
// with a strictly earlier deadline comes in.
func (w *Worker) Run() {
	w.log.Debug("worker started")

	for {
		now := w.provider.Now()
		w.drain(now)
		w.rearm(now)

		var fired <-chan Time
		if w.armed != nil {
			fired = w.armed.timer.C()
		}

		select {
		case <-fired:
			// The fired timer only signals that the queue front may be
			// due; entries are removed by drain on the next cycle.
			w.armed = nil

		case <-w.requests.Signal():
			w.ingest()
			if w.requests.Drained() {
				w.shutdown()
				return
			}
		}
	}
}

// Announcements returns the receive side of the announcement channel.
// Fired identifiers are delivered in nondecreasing deadline order,
// ties in ascending TimerID order. Closing it detaches the consumer;
// later fires are discarded silently.
func (w *Worker) Announcements() *Announcements {
	return &Announcements{c: w.announce}
}

// drain announces every entry whose deadline is at or before now.
func (w *Worker) drain(now Time) {
	for {
		id, due, ok := w.queue.Front()
		if !ok || due.After(now) {
			return
		}
		w.queue.PopFront()

		if w.announce.Send(id) {
			w.log.WithField("timer_id", id).Debug("timer fired")
			if w.metrics != nil {
				w.metrics.Fired.Inc()
			}
		} else {
			// Consumer is gone. Not an error: the fire is dropped.
			w.log.WithField("timer_id", id).Debug("announcement dropped")
			if w.metrics != nil {
				w.metrics.Dropped.Inc()
			}
		}
		if w.metrics != nil {
			w.metrics.Pending.Dec()
		}
	}
}

// rearm arms a timer for the earliest pending deadline if none is
// armed. drain ran on the same now, so the computed duration is
// always positive.
func (w *Worker) rearm(now Time) {
	if w.armed != nil {
		return
	}
	_, due, ok := w.queue.Front()
	if !ok {
		return
	}
	d := due.Sub(now)
	w.armed = &armedSleep{due: due, timer: w.provider.NewTimer(d)}
	w.log.WithField("in", d).Debug("sleep armed")
}

// ingest inserts every request available without blocking.
func (w *Worker) ingest() {
	for {
		req, ok := w.requests.TryRecv()
		if !ok {
			return
		}
		w.queue.Push(req.id, req.due)
		if w.metrics != nil {
			w.metrics.Pending.Inc()
		}

		// A newly added timer may become due before the armed one;
		// if so, shorten the wait in place instead of sitting out the
		// stale, later deadline.
		if w.armed != nil && req.due.Before(w.armed.due) {
			w.armed.timer.Reset(req.due.Sub(w.provider.Now()))
			w.armed.due = req.due
			w.log.WithField("timer_id", req.id).Debug("sleep shortened")
		}
	}
}

// shutdown discards all still-pending entries and closes the
// announcement channel. Shutdown means abandonment: pending timers
// are never announced.
func (w *Worker) shutdown() {
	if w.armed != nil {
		w.armed.timer.Stop()
		w.armed = nil
	}

	discarded := 0
	for {
		_, _, ok := w.queue.Front()
		if !ok {
			break
		}
		w.queue.PopFront()
		discarded++
		if w.metrics != nil {
			w.metrics.Discarded.Inc()
			w.metrics.Pending.Dec()
		}
	}

	w.announce.Close()
	w.log.WithField("discarded", discarded).Info("worker stopped")
}
