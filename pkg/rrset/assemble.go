// Package rrset holds the RRSet value model (CRSet), its Key, and the
// pure conversions between github.com/miekg/dns wire records and the
// cache's own compact representation. Nothing here touches the
// network or the clock; every function is a total, side-effect-free
// transform, so it is exercised directly by table tests without any
// fixture beyond a slice of dns.RR.
package rrset

import (
	"net/netip"

	"github.com/miekg/dns"
)

// kindOf returns the Kind implied by rr's concrete Go type, or
// ok=false if rr is not one of the eight supported record shapes.
func kindOf(rr dns.RR) (Kind, bool) {
	switch rr.(type) {
	case *dns.A:
		return KindA, true
	case *dns.AAAA:
		return KindAAAA, true
	case *dns.NS:
		return KindNS, true
	case *dns.PTR:
		return KindPTR, true
	case *dns.MX:
		return KindMX, true
	case *dns.TXT:
		return KindTXT, true
	case *dns.CNAME:
		return KindCNAME, true
	case *dns.SOA:
		return KindSOA, true
	default:
		return 0, false
	}
}

func wireTypeOf(k Kind) uint16 {
	switch k {
	case KindA:
		return dns.TypeA
	case KindAAAA:
		return dns.TypeAAAA
	case KindNS:
		return dns.TypeNS
	case KindPTR:
		return dns.TypePTR
	case KindMX:
		return dns.TypeMX
	case KindTXT:
		return dns.TypeTXT
	case KindCNAME:
		return dns.TypeCNAME
	case KindSOA:
		return dns.TypeSOA
	default:
		return 0
	}
}

// rrSetKey yields (Key, TTL) for rr iff rr.Class is IN and rr's RDATA
// tag (its concrete Go type) matches its declared header TYPE.
// Mismatched or unsupported records are rejected.
func rrSetKey(rr dns.RR) (Key, uint32, bool) {
	if rr == nil {
		return Key{}, 0, false
	}
	h := rr.Header()
	if h.Class != dns.ClassINET {
		return Key{}, 0, false
	}
	kind, ok := kindOf(rr)
	if !ok {
		return Key{}, 0, false
	}
	if wireTypeOf(kind) != h.Rrtype {
		return Key{}, 0, false
	}
	return Key{Name: NewName(h.Name), Type: h.Rrtype, Class: h.Class}, h.Ttl, true
}

// rdataOf extracts the RData harvested from a single wire record. The
// caller has already established rr's Kind via kindOf/rrSetKey.
func rdataOf(rr dns.RR) (RData, bool) {
	switch v := rr.(type) {
	case *dns.A:
		addr, ok := netip.AddrFromSlice(v.A.To4())
		if !ok {
			return RData{}, false
		}
		return RData{Addr: addr}, true
	case *dns.AAAA:
		addr, ok := netip.AddrFromSlice(v.AAAA.To16())
		if !ok {
			return RData{}, false
		}
		return RData{Addr: addr}, true
	case *dns.NS:
		return RData{Name: NewName(v.Ns)}, true
	case *dns.PTR:
		return RData{Name: NewName(v.Ptr)}, true
	case *dns.MX:
		return RData{MX: MX{Preference: v.Preference, Exchange: NewName(v.Mx)}}, true
	case *dns.TXT:
		var buf []byte
		for _, s := range v.Txt {
			buf = append(buf, s...)
		}
		return RData{Txt: buf}, true
	case *dns.CNAME:
		return RData{Name: NewName(v.Target)}, true
	case *dns.SOA:
		return RData{SOA: SOA{
			Ns:      NewName(v.Ns),
			Mbox:    NewName(v.Mbox),
			Serial:  v.Serial,
			Refresh: v.Refresh,
			Retry:   v.Retry,
			Expire:  v.Expire,
			Minimum: v.Minttl,
		}}, true
	default:
		return RData{}, false
	}
}

// TakeRRSet accepts a nonempty list of wire records intended to form
// one RRSet. It succeeds only if every record maps via rrSetKey to
// the same (Key, TTL) pair and the resulting CRSet satisfies its
// cardinality invariant (CNAME/SOA exactly one record; everything
// else nonempty). On success it returns the shared Key, TTL, and the
// assembled CRSet.
func TakeRRSet(rrs []dns.RR) (Key, uint32, CRSet, bool) {
	if len(rrs) == 0 {
		return Key{}, 0, CRSet{}, false
	}

	key, ttl, ok := rrSetKey(rrs[0])
	if !ok {
		return Key{}, 0, CRSet{}, false
	}
	kind, _ := kindOf(rrs[0])

	if (kind == KindCNAME || kind == KindSOA) && len(rrs) != 1 {
		return Key{}, 0, CRSet{}, false
	}

	rdatas := make([]RData, 0, len(rrs))
	for _, rr := range rrs {
		k, t, ok := rrSetKey(rr)
		if !ok || k != key || t != ttl {
			return Key{}, 0, CRSet{}, false
		}
		rk, ok := kindOf(rr)
		if !ok || rk != kind {
			return Key{}, 0, CRSet{}, false
		}
		rd, ok := rdataOf(rr)
		if !ok {
			return Key{}, 0, CRSet{}, false
		}
		rdatas = append(rdatas, rd)
	}

	crs, ok := FromRDatas(kind, rdatas)
	if !ok {
		return Key{}, 0, CRSet{}, false
	}
	return key, ttl, crs, true
}

// ExtractRRSet is the inverse of TakeRRSet: it produces wire records
// with owner/type/class from key and the given TTL, one per RDATA in
// crs. TakeRRSet joins a TXT record's character-strings into one
// datum, so each TXT record comes back out with a single string.
func ExtractRRSet(key Key, ttl uint32, crs CRSet) []dns.RR {
	hdr := func() dns.RR_Header {
		return dns.RR_Header{Name: key.Name.String(), Rrtype: key.Type, Class: key.Class, Ttl: ttl}
	}

	rd := crs.ToRDatas()
	rrs := make([]dns.RR, 0, len(rd))
	for _, r := range rd {
		switch crs.Kind {
		case KindA:
			rrs = append(rrs, &dns.A{Hdr: hdr(), A: r.Addr.AsSlice()})
		case KindAAAA:
			rrs = append(rrs, &dns.AAAA{Hdr: hdr(), AAAA: r.Addr.AsSlice()})
		case KindNS:
			rrs = append(rrs, &dns.NS{Hdr: hdr(), Ns: r.Name.String()})
		case KindPTR:
			rrs = append(rrs, &dns.PTR{Hdr: hdr(), Ptr: r.Name.String()})
		case KindMX:
			rrs = append(rrs, &dns.MX{Hdr: hdr(), Preference: r.MX.Preference, Mx: r.MX.Exchange.String()})
		case KindTXT:
			rrs = append(rrs, &dns.TXT{Hdr: hdr(), Txt: []string{string(r.Txt)}})
		case KindCNAME:
			rrs = append(rrs, &dns.CNAME{Hdr: hdr(), Target: r.Name.String()})
		case KindSOA:
			rrs = append(rrs, &dns.SOA{
				Hdr:     hdr(),
				Ns:      r.SOA.Ns.String(),
				Mbox:    r.SOA.Mbox.String(),
				Serial:  r.SOA.Serial,
				Refresh: r.SOA.Refresh,
				Retry:   r.SOA.Retry,
				Expire:  r.SOA.Expire,
				Minttl:  r.SOA.Minimum,
			})
		}
	}
	return rrs
}
