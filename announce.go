package timerq

import "github.com/romshark/timerq/internal/mpsc"

// Announcements is the single-consumer receive side of a Worker's
// announcement channel.
type Announcements struct {
	c *mpsc.Chan[TimerID]
}

// Recv blocks until the next fired identifier is available.
// Returns ok == false once the channel is closed and drained.
func (a *Announcements) Recv() (id TimerID, ok bool) {
	return a.c.Recv()
}

// TryRecv returns the next fired identifier without blocking.
func (a *Announcements) TryRecv() (id TimerID, ok bool) {
	return a.c.TryRecv()
}

// Close detaches the consumer. The Worker keeps running and silently
// discards identifiers fired after this point.
func (a *Announcements) Close() {
	a.c.Close()
}
