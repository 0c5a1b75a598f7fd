// Package cachestore implements the cache store spec.md §4.2
// describes: a Key-indexed, eol-ordered collection of live RRSets with
// RFC 2181 §5.4.1 ranking admission and capacity-bounded eviction.
//
// Store follows a clone-then-mutate discipline rather than mutating a
// published value in place: every operation that changes the store
// returns a new *Store built from a shallow clone of the old one's
// pkg/psq.PSQ, leaving the old *Store forever safe for a concurrent
// reader to keep dereferencing. This is the "cheap-to-clone mutable"
// option spec.md §5 allows, chosen over a fully persistent tree
// because pkg/psq's clone is a single O(n) slice+map copy — cheap
// enough for the single-writer-per-tick update rate spec.md §5
// describes, and far simpler to get right than a persistent heap.
package cachestore

import (
	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/psq"
	"github.com/istra-dns/istra/pkg/rank"
	"github.com/istra-dns/istra/pkg/rrset"
)

// Store is an immutable-once-published snapshot of the cache: every
// live (Key, Val) pair, ordered by eol for O(log n) expiry and
// capacity eviction.
type Store struct {
	maxSize int
	clamp   TTLClamp
	q       *psq.PSQ[rrset.Key, rrset.Val]
}

// less breaks eol ties by Key order, so which of several
// simultaneously-expiring entries is "the" minimum is deterministic —
// spec.md §4.2's capacity policy and expiry sweep both rely on this.
func less(a, b psq.Item[rrset.Key, rrset.Val]) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Key.Less(b.Key)
}

// Empty returns a store with no entries and the given capacity. It
// panics on a non-positive maxSize, the same invalid-argument
// discipline pkg/lru's NewLRU used: a cache that can hold nothing is a
// caller bug, not a runtime condition to route through error returns.
// A maxCacheSize of zero from configuration is handled one layer up,
// in the cache facade, by substituting a NoOp cache instead of calling
// Empty at all (see DESIGN.md, Open Question: maxCacheSize == 0).
func Empty(maxSize int) *Store {
	if maxSize <= 0 {
		panic("cachestore: invalid max size")
	}
	return &Store{
		maxSize: maxSize,
		q:       psq.New[rrset.Key, rrset.Val](less),
	}
}

// WithTTLClamp returns a copy of s that clamps every future Insert's
// ttl argument through c before computing eol. It does not touch
// already-admitted entries.
func (s *Store) WithTTLClamp(c TTLClamp) *Store {
	clone := *s
	clone.clamp = c
	return &clone
}

// Size returns the number of live-or-not-yet-swept entries.
func (s *Store) Size() int { return s.q.Len() }

// MinKey returns the Key nearest to expiry, if the store is non-empty.
func (s *Store) MinKey() (rrset.Key, bool) {
	it, ok := s.q.Min()
	if !ok {
		return rrset.Key{}, false
	}
	return it.Key, true
}

// DumpEntry is one row of an introspection dump, used by cache
// snapshotting and tests.
type DumpEntry struct {
	Key rrset.Key
	Val rrset.Val
	Eol clock.Timestamp
}

// Dump returns every entry currently in the store, expired or not, in
// unspecified order.
func (s *Store) Dump() []DumpEntry {
	out := make([]DumpEntry, 0, s.q.Len())
	s.q.Each(func(it psq.Item[rrset.Key, rrset.Val]) {
		out = append(out, DumpEntry{Key: it.Key, Val: it.Value, Eol: clock.Timestamp(it.Priority)})
	})
	return out
}

// Lookup returns the live RRSet for key as of now, per spec.md §4.2:
// an entry whose eol - now < 1 is a miss even though it is still
// physically present, since sweeping is Insert/Expire's job, not
// Lookup's.
func (s *Store) Lookup(now clock.Timestamp, key rrset.Key) (val rrset.Val, ttl uint32, ok bool) {
	it, found := s.q.Lookup(key)
	if !found {
		return rrset.Val{}, 0, false
	}
	eol := clock.Timestamp(it.Priority)
	ttl, subOK := eol.Sub(now)
	if !subOK || ttl < 1 {
		return rrset.Val{}, 0, false
	}
	return it.Value, ttl, true
}

// Insert admits (key, ttl, crs, rnk) per the RFC 2181 §5.4.1 ranking
// rule: it succeeds if key is absent, or present at a strictly lower
// rank. The check is made against whatever is currently stored for
// key, live or already expired — an expired higher-rank entry still
// blocks a downgrade until something sweeps it, which is exactly what
// a successful Insert does next.
//
// On rejection Insert returns s itself unchanged: no clone, no drain,
// no eviction, matching spec.md §4.2's "no update" contract and §7's
// "rank-too-low on insert is a silent no-op, never logged" policy.
//
// On admission Insert clones s, drains every now-expired entry from
// the clone (so the result stays compact even if nothing had touched
// this store in a while), sets key's new entry, and — if that pushed
// the store over capacity — evicts the nearest-to-expire entry.
func (s *Store) Insert(now clock.Timestamp, key rrset.Key, ttl uint32, crs rrset.CRSet, rnk rank.Ranking) (next *Store, changed bool) {
	next, changed, _ = s.insert(now, key, ttl, crs, rnk)
	return next, changed
}

// InsertEvicted is Insert plus a third result reporting whether
// admitting key forced a capacity eviction, for callers (the
// pkg/pipeline writer, whose OnEviction hook feeds the eviction
// counter in cache/metrics.go) that want an eviction counter without
// duplicating the admission logic.
func (s *Store) InsertEvicted(now clock.Timestamp, key rrset.Key, ttl uint32, crs rrset.CRSet, rnk rank.Ranking) (next *Store, changed, evicted bool) {
	return s.insert(now, key, ttl, crs, rnk)
}

func (s *Store) insert(now clock.Timestamp, key rrset.Key, ttl uint32, crs rrset.CRSet, rnk rank.Ranking) (*Store, bool, bool) {
	if existing, found := s.q.Lookup(key); found {
		if !rnk.Supersedes(existing.Value.Rank) {
			return s, false, false
		}
	}

	next := s.clone()
	next.drainExpired(now)

	ttl = next.clamp.Apply(ttl)
	eol := int64(now) + int64(ttl)
	next.q.Insert(key, eol, rrset.Val{CRS: crs, Rank: rnk})

	evicted := false
	if next.q.Len() > next.maxSize {
		next.q.PopMin()
		evicted = true
	}
	return next, true, evicted
}

// Expires removes every entry whose eol <= now. It returns s unchanged
// (no clone) if there is nothing to remove.
func (s *Store) Expires(now clock.Timestamp) (*Store, bool) {
	min, ok := s.q.Min()
	if !ok || int64(now) < min.Priority {
		return s, false
	}
	next := s.clone()
	next.drainExpired(now)
	return next, true
}

// Expire1 removes at most one expired entry — the one nearest to
// expiry — mirroring spec.md §4.2's single-step primitive used by
// tests and by any caller that wants to bound the work done per call.
func (s *Store) Expire1(now clock.Timestamp) (*Store, bool) {
	min, ok := s.q.Min()
	if !ok || int64(now) < min.Priority {
		return s, false
	}
	next := s.clone()
	next.q.PopMin()
	return next, true
}

func (s *Store) clone() *Store {
	return &Store{
		maxSize: s.maxSize,
		clamp:   s.clamp,
		q:       s.q.Clone(),
	}
}

// drainExpired pops every entry whose eol <= now. Because PopMin
// always returns the smallest eol, the first non-expired minimum ends
// the sweep.
func (s *Store) drainExpired(now clock.Timestamp) {
	for {
		min, ok := s.q.Min()
		if !ok || int64(now) < min.Priority {
			return
		}
		s.q.PopMin()
	}
}
