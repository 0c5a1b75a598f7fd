package cache

import (
	"github.com/miekg/dns"

	"github.com/istra-dns/istra/pkg/cachestore"
	"github.com/istra-dns/istra/pkg/rank"
)

// NoOp implements Cache by caching nothing. It is what a maxCacheSize
// of zero resolves to (see DESIGN.md, Open Question: maxCacheSize ==
// 0): every Lookup misses, every Ingest is a discard, and Shutdown is
// instant, since there is no writer goroutine to stop.
type NoOp struct{}

func (NoOp) Lookup(name string, qtype, qclass uint16) (*dns.Msg, rank.Ranking, bool) {
	return nil, 0, false
}
func (NoOp) Ingest(msg *dns.Msg) int          { return 0 }
func (NoOp) Snapshot() []cachestore.DumpEntry { return nil }
func (NoOp) QueueSizes() (current, max int)   { return 0, 0 }
func (NoOp) Shutdown()                        {}
