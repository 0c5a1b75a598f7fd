package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"

	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/pool"
	"github.com/istra-dns/istra/pkg/rrset"
)

// DumpSnapshot renders every live entry (as of now) into a
// snappy-compressed blob of length-prefixed wire-format DNS messages,
// one per entry, for an operator debug endpoint to hand out. It is a
// read-only diagnostic dump, not a save/restore mechanism: nothing in
// this module ever loads one back into a Store, since the cache has no
// persistence-across-restarts goal to serve (see DESIGN.md).
//
// Message building borrows pool.GetMsg/ReleaseMsg, the teacher's
// sync.Pool wrapper for *dns.Msg, since a snapshot walks every entry
// and would otherwise allocate one throwaway *dns.Msg per row.
func (f *Facade) DumpSnapshot(now clock.Timestamp) ([]byte, error) {
	var buf bytes.Buffer
	var lenPrefix [4]byte

	for _, e := range f.Snapshot() {
		ttl, ok := e.Eol.Sub(now)
		if !ok || ttl < 1 {
			continue // already expired as of now; skip rather than dump stale data
		}

		m := pool.GetMsg()
		m.Answer = rrset.ExtractRRSet(e.Key, ttl, e.Val.CRS)
		packed, err := m.Pack()
		pool.ReleaseMsg(m)
		if err != nil {
			return nil, fmt.Errorf("cache: snapshot: pack %s: %w", e.Key.Name, err)
		}

		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(packed)))
		buf.Write(lenPrefix[:])
		buf.Write(packed)
	}

	return snappy.Encode(nil, buf.Bytes()), nil
}
