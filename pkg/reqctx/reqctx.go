// Package reqctx models the resolver-worker side of the interface
// spec.md §6 describes: "From the resolver's per-request worker: a
// completed upstream response to admit, and a query to look up." It is
// adapted from pkg/query_context.Context, trimmed to the handful of
// fields the cache facade actually needs — a query identity, the
// client metadata worth logging, and a request-scoped id for
// correlating log lines — instead of the full plugin-chain context the
// teacher's Context carries end to end through a resolver pipeline
// that does not exist in this module.
package reqctx

import (
	"fmt"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
)

var requestUID atomic.Uint32

// Request is one resolver worker's cache-facing view of an in-flight
// query: enough identity to build a rrset.Key, plus metadata for logs
// and metrics. It carries no plugin-chain state because this module
// has no plugin chain.
type Request struct {
	id         uint32
	startTime  time.Time
	clientAddr netip.Addr

	Name  string
	Type  uint16
	Class uint16
}

// New allocates a Request for a query of (name, qtype, qclass) from
// client. It always stamps StartTime from the wall clock (time.Now) at
// call time, and Elapsed measures against that same wall clock;
// callers wanting a deterministic time in tests should measure against
// their own clock.Source instead of relying on StartTime/Elapsed, since
// this constructor — unlike the cache pipeline — is on the request hot
// path and is not worth threading a clock.Source through.
func New(name string, qtype, qclass uint16, client netip.Addr) *Request {
	if client.Is4In6() {
		client = client.Unmap()
	}
	return &Request{
		id:         requestUID.Add(1),
		startTime:  time.Now(),
		clientAddr: client,
		Name:       name,
		Type:       qtype,
		Class:      qclass,
	}
}

func (r *Request) ID() uint32             { return r.id }
func (r *Request) ClientAddr() netip.Addr { return r.clientAddr }
func (r *Request) StartTime() time.Time   { return r.startTime }
func (r *Request) Elapsed() time.Duration { return time.Since(r.startTime) }

// String renders a one-line summary for logs, the same
// name/class/type/id shape query_context.Context.String built —
// using dns.Class/dns.Type's own Stringers instead of the teacher's
// hand-rolled QclassToString/QtypeToString maps in pkg/dnsutils, since
// miekg/dns already provides that mapping.
func (r *Request) String() string {
	return fmt.Sprintf("%s %s %s %d", r.Name, dns.Class(r.Class), dns.Type(r.Type), r.id)
}
