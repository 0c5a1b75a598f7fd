// Package clock supplies the injected time source spec.md §5 and §6
// require: the cache never reads the wall clock directly, so tests can
// drive it deterministically.
package clock

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Timestamp is the cache's opaque, totally ordered time scalar:
// monotonic-ish seconds. It supports subtraction to yield a TTL.
type Timestamp int64

// Sub returns t-u as a TTL, clamped to zero if the result would be
// negative or would overflow uint32. Corrupt or backwards clocks are
// treated as "expired now" rather than propagated as an error
// (spec.md §7, "Corrupt time").
func (t Timestamp) Sub(u Timestamp) (ttl uint32, ok bool) {
	d := int64(t) - int64(u)
	if d < 0 || d > int64(^uint32(0)) {
		return 0, false
	}
	return uint32(d), true
}

// Source is the pair of accessors spec.md §6 names: GetSec and
// GetTimeStr. GetTimeStr follows the tail-string idiom described
// there — it returns a function that prepends a rendered timestamp to
// whatever tail the caller supplies, so a log line can be built
// without an intermediate allocation for the timestamp alone.
type Source interface {
	GetSec() Timestamp
	GetTimeStr() func(tail string) string
}

// System is the production Source, backed by time.Now.
type System struct{}

func (System) GetSec() Timestamp { return Timestamp(time.Now().Unix()) }

func (System) GetTimeStr() func(string) string {
	ts := time.Now().UTC().Format(time.RFC3339)
	return func(tail string) string { return ts + " " + tail }
}

// Fake is a deterministic Source for tests: GetSec returns whatever
// was last set with Set, defaulting to zero. Safe for concurrent use
// so a test can advance the clock from one goroutine while a pipeline
// worker reads it from another.
type Fake struct {
	sec atomic.Int64
}

// NewFake creates a Fake clock starting at the given second.
func NewFake(start Timestamp) *Fake {
	f := &Fake{}
	f.sec.Store(int64(start))
	return f
}

// Set moves the fake clock to t.
func (f *Fake) Set(t Timestamp) { f.sec.Store(int64(t)) }

// Advance moves the fake clock forward by delta seconds and returns
// the new value.
func (f *Fake) Advance(delta int64) Timestamp {
	return Timestamp(f.sec.Add(delta))
}

func (f *Fake) GetSec() Timestamp { return Timestamp(f.sec.Load()) }

func (f *Fake) GetTimeStr() func(string) string {
	sec := f.sec.Load()
	return func(tail string) string { return "t=" + strconv.FormatInt(sec, 10) + " " + tail }
}
