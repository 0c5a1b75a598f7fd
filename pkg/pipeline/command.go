package pipeline

import (
	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/rank"
	"github.com/istra-dns/istra/pkg/rrset"
)

// Command is one of Insert or Expire, the two update primitives
// spec.md §4.5 funnels through the single writer.
type Command interface {
	isCommand()
}

// Insert asks the writer to admit an RRSet at the given rank, per
// pkg/cachestore.Store.Insert's admission rule.
type Insert struct {
	Now  clock.Timestamp
	Key  rrset.Key
	TTL  uint32
	CRS  rrset.CRSet
	Rank rank.Ranking
}

func (Insert) isCommand() {}

// Expire asks the writer to sweep every entry that has expired as of
// Now. The periodic ticker in worker.go issues these; a facade can
// also issue one explicitly (e.g. before a diagnostic snapshot).
type Expire struct {
	Now clock.Timestamp
}

func (Expire) isCommand() {}
