package timerq

import "time"

type timeProvider struct{}

func (p timeProvider) Now() Time {
	return time.Now()
}

func (p timeProvider) NewTimer(d Duration) Timer {
	return sysTimer{time.NewTimer(d)}
}

// sysTimer adapts *time.Timer. A non-positive duration fires the
// timer immediately, so already-due deadlines are announced on the
// very next drive cycle.
type sysTimer struct{ t *time.Timer }

func (s sysTimer) C() <-chan Time        { return s.t.C }
func (s sysTimer) Reset(d Duration) bool { return s.t.Reset(d) }
func (s sysTimer) Stop() bool            { return s.t.Stop() }
