package cache

import (
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/rank"
)

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("dns.NewRR(%q): %v", s, err)
	}
	return rr
}

func waitForCond(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestFacadeIngestThenLookup(t *testing.T) {
	src := clock.NewFake(0)
	f := New(Options{MaxSize: 10, Clock: src})
	defer f.Shutdown()

	msg := new(dns.Msg)
	msg.Answer = []dns.RR{mustRR(t, "example.com. 300 IN A 192.0.2.1")}

	n := f.Ingest(msg)
	require.Equal(t, 1, n)

	waitForCond(t, func() bool {
		_, _, ok := f.Lookup("example.com.", dns.TypeA, dns.ClassINET)
		return ok
	})

	got, gotRank, ok := f.Lookup("example.com.", dns.TypeA, dns.ClassINET)
	require.True(t, ok, "expected a hit after ingest")
	require.Len(t, got.Answer, 1)
	require.Equal(t, rank.Answer, gotRank, "answer-section ingest should be admitted at rank.Answer")
}

func TestFacadeLookupMissForUnknownName(t *testing.T) {
	f := New(Options{MaxSize: 10, Clock: clock.NewFake(0)})
	defer f.Shutdown()

	_, _, ok := f.Lookup("nowhere.example.", dns.TypeA, dns.ClassINET)
	require.False(t, ok, "expected a miss for a name never ingested")
}

func TestFacadeSnapshotAndQueueSizes(t *testing.T) {
	src := clock.NewFake(0)
	f := New(Options{MaxSize: 10, Clock: src})
	defer f.Shutdown()

	msg := new(dns.Msg)
	msg.Answer = []dns.RR{mustRR(t, "example.com. 300 IN A 192.0.2.1")}
	f.Ingest(msg)

	waitForCond(t, func() bool { return len(f.Snapshot()) == 1 })
	cur, max := f.QueueSizes()
	if cur < 0 || cur > max {
		t.Fatalf("QueueSizes() = (%d, %d), want 0 <= current <= max", cur, max)
	}
	if max <= 0 {
		t.Fatal("QueueSizes() max must reflect the configured queue capacity")
	}
}

func TestFacadeMetricsWiring(t *testing.T) {
	f := New(Options{MaxSize: 1, Clock: clock.NewFake(0)})
	defer f.Shutdown()
	m := NewMetrics(f)
	f.AttachMetrics(m)

	if f.MetricsRegisterer() == nil {
		t.Fatal("expected a non-nil registry once metrics are attached")
	}

	msg := new(dns.Msg)
	msg.Answer = []dns.RR{mustRR(t, "a.example.com. 300 IN A 192.0.2.1")}
	f.Ingest(msg)
	waitForCond(t, func() bool { return f.Size() == 1 })

	// A second distinct name forces a capacity eviction on a size-1 store.
	msg2 := new(dns.Msg)
	msg2.Answer = []dns.RR{mustRR(t, "b.example.com. 300 IN A 192.0.2.2")}
	f.Ingest(msg2)
	waitForCond(t, func() bool {
		_, _, ok := f.Lookup("b.example.com.", dns.TypeA, dns.ClassINET)
		return ok
	})
}

func TestNoOpCacheAlwaysMisses(t *testing.T) {
	var c Cache = NoOp{}
	if _, _, ok := c.Lookup("example.com.", dns.TypeA, dns.ClassINET); ok {
		t.Fatal("NoOp.Lookup must always miss")
	}
	msg := new(dns.Msg)
	msg.Answer = []dns.RR{mustRR(t, "example.com. 300 IN A 192.0.2.1")}
	if n := c.Ingest(msg); n != 0 {
		t.Fatalf("NoOp.Ingest() = %d, want 0", n)
	}
	if s := c.Snapshot(); s != nil {
		t.Fatalf("NoOp.Snapshot() = %v, want nil", s)
	}
	if cur, max := c.QueueSizes(); cur != 0 || max != 0 {
		t.Fatal("NoOp.QueueSizes() must be (0, 0)")
	}
	c.Shutdown()
}
