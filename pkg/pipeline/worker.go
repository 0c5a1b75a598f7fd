// Package pipeline is the asynchronous single-writer update path
// spec.md §4.5 describes: a bounded FIFO of Insert/Expire commands
// drained by exactly one goroutine, which is the only goroutine ever
// allowed to mutate which *cachestore.Store is published. Readers
// (pkg's cache facade Lookup path) load the published pointer and
// never block on the writer.
//
// The single-writer discipline and its shutdown lifecycle are
// adapted from pkg/safe_close.SafeClose, the teacher's Attach/
// CloseWait pattern for a service's background goroutines.
package pipeline

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/istra-dns/istra/pkg/cachestore"
	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/logsink"
	"github.com/istra-dns/istra/pkg/policy"
	"github.com/istra-dns/istra/pkg/safe_close"
)

// QueueCapacity bounds the pending-command FIFO. A full queue applies
// backpressure to Enqueue by blocking the caller (spec.md §4.5, §4.6,
// §7 — "Queue full: back-pressure; Insert blocks. Not an error.")
// rather than growing unboundedly or dropping updates.
const QueueCapacity = 8

// TickInterval is how often the pipeline issues its own Expire sweep
// even if no Insert ever arrives to trigger one, per spec.md §4.5.
const TickInterval = time.Second

// Pipeline owns the single writer goroutine and the published Store.
type Pipeline struct {
	queue  chan Command
	sc     *safe_close.SafeClose
	store  atomic.Pointer[cachestore.Store]
	clock  clock.Source
	sink   logsink.Sink
	bypass atomic.Pointer[policy.Bypass]
	ticker Ticker

	// OnEviction, if set, is called from the writer goroutine each time
	// an Insert forces a capacity eviction. Used by cache/metrics.go;
	// left nil it costs nothing.
	OnEviction func()
	// OnExpireSweep, if set, is called after every Expire command that
	// actually removed entries, with the count removed.
	OnExpireSweep func(removed int)
}

// New builds a Pipeline publishing initial until the writer goroutine
// applies its first command. sink and bypass may be nil-equivalents
// (logsink.Nop{}, policy.Nop).
func New(initial *cachestore.Store, src clock.Source, sink logsink.Sink, bypass *policy.Bypass) *Pipeline {
	if sink == nil {
		sink = logsink.Nop{}
	}
	if bypass == nil {
		bypass = policy.Nop
	}
	p := &Pipeline{
		queue: make(chan Command, QueueCapacity),
		sc:    safe_close.NewSafeClose(),
		clock: src,
		sink:  sink,
	}
	p.store.Store(initial)
	p.bypass.Store(bypass)
	return p
}

// SetBypass hot-swaps the admission-bypass policy the writer goroutine
// consults on every Insert. Safe to call concurrently with the writer
// loop; pkg/config.WatchBypassFile calls this each time the bypass
// expression file changes on disk.
func (p *Pipeline) SetBypass(b *policy.Bypass) {
	if b == nil {
		b = policy.Nop
	}
	p.bypass.Store(b)
}

// Store returns the currently published snapshot. Safe for any number
// of concurrent readers.
func (p *Pipeline) Store() *cachestore.Store { return p.store.Load() }

// QueueLen reports the number of commands waiting to be applied, for
// metrics.
func (p *Pipeline) QueueLen() int { return len(p.queue) }

// Enqueue offers cmd to the writer, blocking the caller while the
// queue is full (spec.md §4.6: "Insert... may block while the queue is
// full"). This is natural back-pressure, not an error: the caller
// waits only as long as it takes the single writer to drain one slot.
func (p *Pipeline) Enqueue(cmd Command) {
	p.queue <- cmd
}

// Start launches the writer goroutine using ticker as its periodic
// Expire source. Callers in production should pass NewTicker(TickInterval);
// tests can pass a Ticker they control directly.
func (p *Pipeline) Start(ticker Ticker) {
	p.ticker = ticker
	p.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		defer ticker.Stop()
		for {
			select {
			case <-closeSignal:
				return
			case cmd := <-p.queue:
				p.apply(cmd)
			case <-ticker.C():
				p.apply(Expire{Now: p.clock.GetSec()})
			}
		}
	})
}

// Shutdown stops the writer goroutine and waits for it to exit. Any
// commands still queued at that point are abandoned; callers should
// stop calling Enqueue before initiating Shutdown, since Enqueue
// blocks on a full queue and the writer will no longer drain it once
// Shutdown has been called.
func (p *Pipeline) Shutdown() {
	p.sc.CloseWait()
}

// apply runs exactly one command against the current store and
// publishes the result if it changed. A panic here would otherwise
// kill the sole writer goroutine and silently stop the cache from
// ever accepting Insert commands again, so it is recovered and
// reported instead of allowed to propagate. Per spec.md §4.5/§7
// ("Worker exception"), a recovered worker panic is logged at NOTICE,
// not Error: the pipeline degrading to a no-op cache for one command
// is an operationally significant event, not a fatal one.
func (p *Pipeline) apply(cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			p.sink.PutLines(logsink.Notice, []string{fmt.Sprintf("pipeline: recovered panic applying %T: %v", cmd, r)})
		}
	}()

	cur := p.store.Load()

	switch c := cmd.(type) {
	case Insert:
		bypass, err := p.bypass.Load().Bypasses(policy.Params{
			Name:  c.Key.Name.String(),
			Type:  c.Key.Type,
			Class: c.Key.Class,
			Rank:  c.Rank,
			TTL:   c.TTL,
		})
		if err != nil {
			p.sink.PutLines(logsink.Error, []string{fmt.Sprintf("pipeline: bypass policy eval failed: %v", err)})
			return
		}
		if bypass {
			return
		}
		next, changed, evicted := cur.InsertEvicted(c.Now, c.Key, c.TTL, c.CRS, c.Rank)
		if changed {
			p.store.Store(next)
			if evicted && p.OnEviction != nil {
				p.OnEviction()
			}
		}

	case Expire:
		before := cur.Size()
		next, changed := cur.Expires(c.Now)
		if !changed {
			return
		}
		p.store.Store(next)
		if after := next.Size(); after != before {
			removed := before - after
			p.sink.PutLines(logsink.Notice, []string{
				fmt.Sprintf("cache: expired %d entries (%d -> %d)", removed, before, after),
			})
			if p.OnExpireSweep != nil {
				p.OnExpireSweep(removed)
			}
		}
	}
}
