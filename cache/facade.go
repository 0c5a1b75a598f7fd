// Package cache is the three-operation facade spec.md §1 promises the
// rest of a resolver: Lookup a cached answer, Insert (ingest) an
// upstream response, and Shutdown the background writer cleanly. It
// wires together pkg/section, pkg/rrset, pkg/cachestore, and
// pkg/pipeline into the single collaborator a resolver worker talks
// to, the same "one facade type wraps several internal packages" shape
// coremain.Mosdns gives the teacher's plugin chain.
package cache

import (
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/istra-dns/istra/pkg/cachestore"
	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/logsink"
	"github.com/istra-dns/istra/pkg/pipeline"
	"github.com/istra-dns/istra/pkg/policy"
	"github.com/istra-dns/istra/pkg/rank"
	"github.com/istra-dns/istra/pkg/reqctx"
	"github.com/istra-dns/istra/pkg/rrset"
	"github.com/istra-dns/istra/pkg/section"
)

// Cache is the interface a resolver worker depends on. Both Facade and
// NoOp implement it, so wiring maxCacheSize == 0 to NoOp (see
// DESIGN.md) is invisible to callers.
type Cache interface {
	// Lookup returns the cached answer for (name, qtype, qclass) along
	// with the Ranking it was admitted at, per spec.md §6's
	// Lookup: (Name, Type, Class) -> Option<(Vec<ResourceRecord>, Ranking)>.
	Lookup(name string, qtype, qclass uint16) (*dns.Msg, rank.Ranking, bool)
	Ingest(msg *dns.Msg) int
	Snapshot() []cachestore.DumpEntry
	// QueueSizes reports the pending-command backlog and the queue's
	// fixed capacity, per spec.md §6's QueueSizes: () -> (current, max).
	QueueSizes() (current, max int)
	Shutdown()
}

// Facade is the live, pipeline-backed Cache.
type Facade struct {
	pl      *pipeline.Pipeline
	clock   clock.Source
	sink    logsink.Sink
	metrics *Metrics
}

// Options configures a Facade. Zero-valued Clamp, Sink, and Bypass are
// all valid: no TTL clamping, discard logs, never bypass.
type Options struct {
	MaxSize int
	Clamp   cachestore.TTLClamp
	Clock   clock.Source
	Sink    logsink.Sink
	Bypass  *policy.Bypass
}

// New builds a Facade and starts its writer goroutine. Callers must
// eventually call Shutdown. MaxSize must be positive; a caller that
// wants "cache nothing" (max_cache_size: 0, spec.md §6) should use
// NewCache instead, which substitutes NoOp rather than calling New.
func New(opts Options) *Facade {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Sink == nil {
		opts.Sink = logsink.Nop{}
	}
	store := cachestore.Empty(opts.MaxSize).WithTTLClamp(opts.Clamp)
	pl := pipeline.New(store, opts.Clock, opts.Sink, opts.Bypass)
	pl.Start(pipeline.NewTicker(pipeline.TickInterval))
	return &Facade{pl: pl, clock: opts.Clock, sink: opts.Sink}
}

// NewCache builds a Cache from opts: NoOp when MaxSize <= 0 (the
// resolved answer to the Open Question in DESIGN.md — "what does
// max_cache_size: 0 mean" — mirrors how the teacher resolves a
// disabled plugin: same interface, inert implementation, rather than
// panicking or special-casing zero at every call site), otherwise a
// live Facade via New. Callers that need Facade-only operations
// (AttachMetrics, SetBypass, MetricsRegisterer, DumpSnapshot) should
// type-assert the result, as cmd/cachectl does.
func NewCache(opts Options) Cache {
	if opts.MaxSize <= 0 {
		return NoOp{}
	}
	return New(opts)
}

// AttachMetrics wires m's counters to f's events. It is separate from
// New because NewMetrics needs a *Facade to build its GaugeFuncs
// against — a small chicken-and-egg every caller resolves the same
// way: f := New(opts); f.AttachMetrics(cache.NewMetrics(f)).
func (f *Facade) AttachMetrics(m *Metrics) {
	f.metrics = m
	f.pl.OnEviction = func() { m.evictions.Inc() }
}

// Size returns the number of entries the published store currently
// holds, live or not yet swept.
func (f *Facade) Size() int { return f.pl.Store().Size() }

// SetBypass hot-swaps the admission-bypass policy; see
// pipeline.Pipeline.SetBypass.
func (f *Facade) SetBypass(b *policy.Bypass) { f.pl.SetBypass(b) }

// MetricsRegisterer returns the prometheus registry AttachMetrics
// wired up, or nil if AttachMetrics was never called.
func (f *Facade) MetricsRegisterer() *prometheus.Registry {
	if f.metrics == nil {
		return nil
	}
	return f.metrics.Registerer()
}

// Lookup returns a synthesized *dns.Msg answer for (name, qtype,
// qclass) if a live RRSet is cached, along with whether it hit.
// Callers own the returned Msg — it is a fresh one each time, never
// shared with the cache's internal state (RRs are converted, not
// aliased, in pkg/rrset.ExtractRRSet).
func (f *Facade) Lookup(name string, qtype, qclass uint16) (*dns.Msg, rank.Ranking, bool) {
	req := reqctx.New(name, qtype, qclass, netip.Addr{})
	key := rrset.Key{Name: rrset.NewName(name), Type: qtype, Class: qclass}
	val, ttl, ok := f.pl.Store().Lookup(f.clock.GetSec(), key)
	if !ok {
		if f.metrics != nil {
			f.metrics.misses.Inc()
		}
		f.sink.PutLines(logsink.Info, []string{fmt.Sprintf("cache miss: %s (%s)", req, req.Elapsed())})
		return nil, 0, false
	}
	if f.metrics != nil {
		f.metrics.hits.Inc()
	}
	f.sink.PutLines(logsink.Info, []string{fmt.Sprintf("cache hit: %s rank=%s (%s)", req, val.Rank, req.Elapsed())})

	m := new(dns.Msg)
	m.Answer = rrset.ExtractRRSet(key, ttl, val.CRS)
	return m, val.Rank, true
}

// Ingest extracts every cacheable RRSet from msg's answer, authority,
// and additional sections and enqueues an Insert command for each,
// blocking while the writer's queue is full (spec.md §4.6). It
// returns the number of groups enqueued.
func (f *Facade) Ingest(msg *dns.Msg) int {
	var name string
	var qtype, qclass uint16
	if len(msg.Question) > 0 {
		q := msg.Question[0]
		name, qtype, qclass = q.Name, q.Qtype, q.Qclass
	}
	req := reqctx.New(name, qtype, qclass, netip.Addr{})

	now := f.clock.GetSec()
	n := 0
	for _, sec := range [...]section.Section{section.Answer, section.Authority, section.Additional} {
		accepted, rejected := section.Extract(msg, sec)
		if f.metrics != nil && len(rejected) > 0 {
			f.metrics.rejected.Add(float64(len(rejected)))
		}
		for _, a := range accepted {
			f.pl.Enqueue(pipeline.Insert{Now: now, Key: a.Key, TTL: a.TTL, CRS: a.CRS, Rank: a.Rank})
			n++
		}
	}
	f.sink.PutLines(logsink.Info, []string{fmt.Sprintf("cache: ingested %d group(s) for %s in %s", n, req, req.Elapsed())})
	return n
}

// Snapshot returns every entry currently held by the published store,
// for diagnostics (see cache/snapshot.go).
func (f *Facade) Snapshot() []cachestore.DumpEntry { return f.pl.Store().Dump() }

// QueueSizes reports the pending-command backlog and the queue's fixed
// capacity, per spec.md §6.
func (f *Facade) QueueSizes() (current, max int) { return f.pl.QueueLen(), pipeline.QueueCapacity }

// Shutdown stops the writer goroutine and waits for it to exit.
func (f *Facade) Shutdown() { f.pl.Shutdown() }
