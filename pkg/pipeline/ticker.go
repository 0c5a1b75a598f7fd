package pipeline

import "time"

// Ticker is the periodic-tick source the worker loop selects on. It
// exists as an interface, rather than a bare *time.Ticker, purely so
// tests can drive expiry sweeps deterministically instead of waiting
// on wall-clock ticks — the tick's payload is ignored, so a test
// ticker only needs to send on C at the moments it wants a sweep.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

// NewTicker wraps a real time.Ticker firing every d.
func NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }
