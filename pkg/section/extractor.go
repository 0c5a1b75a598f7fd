// Package section classifies records pulled from a DNS message's
// answer, authority, and additional sections, assigning each section
// a rank.Ranking per RFC 2181 §5.4.1 and grouping the records into
// candidate RRSets for pkg/rrset.TakeRRSet.
package section

import (
	"github.com/miekg/dns"

	"github.com/istra-dns/istra/pkg/rank"
	"github.com/istra-dns/istra/pkg/rrset"
)

// Section names one of the three logical sections of a DNS reply.
type Section uint8

const (
	Answer Section = iota
	Authority
	Additional
)

// Group is one candidate RRSet: the raw records that share (name,
// type, class) within a section, before TakeRRSet has validated them.
type Group struct {
	Key rrset.Key
	RRs []dns.RR
}

// Accepted pairs a successfully assembled RRSet with the Ranking its
// section implies.
type Accepted struct {
	Key  rrset.Key
	TTL  uint32
	CRS  rrset.CRSet
	Rank rank.Ranking
}

// Rejected names a group that failed pkg/rrset.TakeRRSet — a
// diagnostic, never a fatal error (spec.md §7).
type Rejected struct {
	Key rrset.Key
	RRs []dns.RR
}

// RankFor implements the table in spec.md §4.4. Authoritative-reply
// authority-section data is deliberately excluded (ok=false) to avoid
// an authority-injection hole: an attacker-controlled authoritative
// reply could otherwise plant NS/glue records through its authority
// section.
func RankFor(sec Section, authoritative bool) (r rank.Ranking, ok bool) {
	switch sec {
	case Answer:
		if authoritative {
			return rank.AuthAnswer, true
		}
		return rank.Answer, true
	case Authority:
		if authoritative {
			return 0, false
		}
		return rank.Additional, true
	case Additional:
		return rank.Additional, true
	default:
		return 0, false
	}
}

func rrsOf(msg *dns.Msg, sec Section) []dns.RR {
	switch sec {
	case Answer:
		return msg.Answer
	case Authority:
		return msg.Ns
	case Additional:
		return msg.Extra
	default:
		return nil
	}
}

// Extract classifies msg's given section, groups its records by
// (name, type, class) in first-seen order, and runs each group
// through rrset.TakeRRSet. It returns the section's accepted RRSets
// paired with their Ranking, and the groups that were rejected. If the
// section carries no cacheable data (e.g. an authoritative reply's
// authority section) both slices are nil.
func Extract(msg *dns.Msg, sec Section) (accepted []Accepted, rejected []Rejected) {
	r, ok := RankFor(sec, msg.MsgHdr.Authoritative)
	if !ok {
		return nil, nil
	}

	rrs := rrsOf(msg, sec)
	if len(rrs) == 0 {
		return nil, nil
	}

	// OPT pseudo-records never form an RRSet; drop them before grouping.
	filtered := make([]dns.RR, 0, len(rrs))
	for _, rr := range rrs {
		if rr == nil || rr.Header().Rrtype == dns.TypeOPT {
			continue
		}
		filtered = append(filtered, rr)
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	for _, g := range groupStable(filtered) {
		key, ttl, crs, ok := rrset.TakeRRSet(g.RRs)
		if !ok {
			rejected = append(rejected, Rejected{Key: g.Key, RRs: g.RRs})
			continue
		}
		accepted = append(accepted, Accepted{Key: key, TTL: ttl, CRS: crs, Rank: r})
	}
	return accepted, rejected
}

// groupStable groups rrs by (name, type, class), preserving the
// first-seen order of both groups and records within a group.
func groupStable(rrs []dns.RR) []Group {
	order := make([]rrset.Key, 0, len(rrs))
	byKey := make(map[rrset.Key]*Group, len(rrs))

	for _, rr := range rrs {
		h := rr.Header()
		k := rrset.Key{Name: rrset.NewName(h.Name), Type: h.Rrtype, Class: h.Class}
		g, ok := byKey[k]
		if !ok {
			g = &Group{Key: k}
			byKey[k] = g
			order = append(order, k)
		}
		g.RRs = append(g.RRs, rr)
	}

	out := make([]Group, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}
