// Package timerq provides a coalescing timer scheduling engine.
// A Handle issues timers that a Worker tracks behind a single
// re-armed timer, announcing each TimerID once its deadline passes.
// All methods of a Handle are thread-safe and can safely be used
// from within multiple goroutines; a Worker is driven by exactly
// one goroutine via Run.
package timerq
