package timerq

import (
	"sync/atomic"

	"github.com/romshark/timerq/internal/mpsc"
)

// Handle issues timers to its paired Worker.
// A Handle holds no scheduling state besides the identifier counter
// and never blocks; the request channel is unbounded.
type Handle struct {
	provider TimeProvider
	requests *mpsc.Chan[request]
	metrics  *Metrics
	nextID   atomic.Uint64
}

// StartTimer starts a new timer that becomes due d from now and
// returns its identifier immediately, without waiting for the Worker
// to process the request.
//
// StartTimer panics if the Handle was already closed. The Worker must
// outlive every Handle issuing requests; violating this is a lifetime
// management bug of the caller, not a recoverable condition.
func (h *Handle) StartTimer(d Duration) TimerID {
	id := TimerID(h.nextID.Add(1) - 1)
	due := h.provider.Now().Add(d)

	if !h.requests.Send(request{id: id, due: due}) {
		panic("timerq: StartTimer after Close; " +
			"the Worker must be alive and driven as long as its Handle is used")
	}
	if h.metrics != nil {
		h.metrics.Started.Inc()
	}
	return id
}

// Close closes the request channel, which is the only way to stop the
// paired Worker. The Worker discards timers that are still pending at
// this point; they are never announced.
func (h *Handle) Close() {
	h.requests.Close()
}
