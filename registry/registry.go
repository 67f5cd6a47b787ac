// Package registry turns fired timer identifiers into externally
// visible readiness events. It consumes a Worker's announcements and
// fans each one out to its subscribers on a shared goroutine pool,
// so a slow callback cannot stall the announcement consumer.
package registry

import (
	"fmt"
	"io"
	"sync"

	"github.com/romshark/timerq"

	"github.com/panjf2000/ants/v2"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

const defaultPoolSize = 8

// Registry is a consumer-side readiness registry.
// All methods are safe for concurrent use.
type Registry struct {
	log  logrus.FieldLogger
	pool *ants.Pool

	mu      sync.Mutex
	waiters map[timerq.TimerID][]waiter
	fired   map[timerq.TimerID]struct{}
}

type waiter struct {
	token ksuid.KSUID
	fn    func(timerq.TimerID)
}

// New creates a registry dispatching callbacks on a pool of
// poolSize goroutines. If poolSize < 1 a default size is used.
// If log == nil then logging is disabled.
func New(poolSize int, log logrus.FieldLogger) (*Registry, error) {
	if poolSize < 1 {
		poolSize = defaultPoolSize
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch pool: %w", err)
	}
	return &Registry{
		log:     log,
		pool:    pool,
		waiters: map[timerq.TimerID][]waiter{},
		fired:   map[timerq.TimerID]struct{}{},
	}, nil
}

// Consume reads from the announcement channel a until it is closed
// and drained, dispatching every fired identifier. It blocks and is
// meant to run in its own goroutine.
func (r *Registry) Consume(a *timerq.Announcements) {
	for {
		id, ok := a.Recv()
		if !ok {
			r.log.Debug("announcement channel drained, consumer stopping")
			return
		}
		r.dispatch(id)
	}
}

// Subscribe registers fn to run once the timer identified by id has
// fired and returns a token that can be passed to Unsubscribe.
// If id already fired, fn is dispatched immediately.
func (r *Registry) Subscribe(
	id timerq.TimerID,
	fn func(timerq.TimerID),
) ksuid.KSUID {
	token := ksuid.New()

	r.mu.Lock()
	if _, alreadyFired := r.fired[id]; alreadyFired {
		r.mu.Unlock()
		r.submit(id, fn)
		return token
	}
	r.waiters[id] = append(r.waiters[id], waiter{token: token, fn: fn})
	r.mu.Unlock()
	return token
}

// Unsubscribe removes a pending subscription and returns true.
// Returns false if the subscription already fired or never existed.
func (r *Registry) Unsubscribe(id timerq.TimerID, token ksuid.KSUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.waiters[id]
	if !ok {
		return false
	}
	for i, w := range ws {
		if w.token == token {
			ws[i] = ws[len(ws)-1]
			ws = ws[:len(ws)-1]
			if len(ws) == 0 {
				delete(r.waiters, id)
			} else {
				r.waiters[id] = ws
			}
			return true
		}
	}
	return false
}

// Await returns a channel that is closed once the timer identified
// by id has fired.
func (r *Registry) Await(id timerq.TimerID) <-chan struct{} {
	ready := make(chan struct{})
	r.Subscribe(id, func(timerq.TimerID) { close(ready) })
	return ready
}

// Close releases the dispatch pool.
// Callbacks already submitted still run to completion.
func (r *Registry) Close() {
	r.pool.Release()
}

func (r *Registry) dispatch(id timerq.TimerID) {
	r.mu.Lock()
	r.fired[id] = struct{}{}
	ws := r.waiters[id]
	delete(r.waiters, id)
	r.mu.Unlock()

	for _, w := range ws {
		r.submit(id, w.fn)
	}
}

func (r *Registry) submit(id timerq.TimerID, fn func(timerq.TimerID)) {
	if err := r.pool.Submit(func() { fn(id) }); err != nil {
		r.log.WithError(err).
			WithField("timer_id", id).
			Warn("dropping readiness callback")
	}
}
