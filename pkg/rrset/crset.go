package rrset

import "net/netip"

// Kind tags the closed set of record shapes a CRSet may hold. Dispatch
// on Kind is exhaustive throughout this package; an unrecognized Kind
// at a conversion boundary is always rejected, never guessed at.
type Kind uint8

const (
	KindA Kind = iota
	KindAAAA
	KindNS
	KindPTR
	KindMX
	KindTXT
	KindCNAME
	KindSOA
)

func (k Kind) String() string {
	switch k {
	case KindA:
		return "A"
	case KindAAAA:
		return "AAAA"
	case KindNS:
		return "NS"
	case KindPTR:
		return "PTR"
	case KindMX:
		return "MX"
	case KindTXT:
		return "TXT"
	case KindCNAME:
		return "CNAME"
	case KindSOA:
		return "SOA"
	default:
		return "unknown"
	}
}

// MX is one (preference, exchange) pair.
type MX struct {
	Preference uint16
	Exchange   Name
}

// SOA carries the seven fields of a start-of-authority record.
type SOA struct {
	Ns      Name
	Mbox    Name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// CRSet is the compact, tagged, in-cache representation of one
// RRSet's data. Only the field matching Kind is meaningful; the rest
// are zero. CNAME and SOA carry exactly one datum; every other kind
// carries a nonempty slice. FromRDatas enforces both invariants; a
// CRSet written as a struct literal is not checked.
type CRSet struct {
	Kind Kind

	A     []netip.Addr
	AAAA  []netip.Addr
	NS    []Name
	PTR   []Name
	MX    []MX
	TXT   [][]byte
	CNAME Name
	SOA   SOA
}

// RData is one wire-agnostic resource-record datum. Exactly the field
// relevant to the owning CRSet's Kind is populated; this is the
// intermediate shape the fromRDatas/toRDatas round-trip law in
// spec.md §8 is stated over.
type RData struct {
	Addr netip.Addr
	Name Name
	MX   MX
	Txt  []byte
	SOA  SOA
}

// ToRDatas explodes a CRSet back into its component RDATAs, inverse of
// FromRDatas for the same Kind.
func (c CRSet) ToRDatas() []RData {
	switch c.Kind {
	case KindA, KindAAAA:
		addrs := c.A
		if c.Kind == KindAAAA {
			addrs = c.AAAA
		}
		out := make([]RData, len(addrs))
		for i, a := range addrs {
			out[i] = RData{Addr: a}
		}
		return out
	case KindNS:
		return namesToRDatas(c.NS)
	case KindPTR:
		return namesToRDatas(c.PTR)
	case KindMX:
		out := make([]RData, len(c.MX))
		for i, mx := range c.MX {
			out[i] = RData{MX: mx}
		}
		return out
	case KindTXT:
		out := make([]RData, len(c.TXT))
		for i, t := range c.TXT {
			out[i] = RData{Txt: t}
		}
		return out
	case KindCNAME:
		return []RData{{Name: c.CNAME}}
	case KindSOA:
		return []RData{{SOA: c.SOA}}
	default:
		return nil
	}
}

func namesToRDatas(names []Name) []RData {
	out := make([]RData, len(names))
	for i, n := range names {
		out[i] = RData{Name: n}
	}
	return out
}

// FromRDatas rebuilds a CRSet of the given Kind from its RDATAs,
// enforcing the cardinality invariant: CNAME and SOA accept exactly
// one datum, every other Kind requires a nonempty slice. Returns
// ok=false on any violation or on an unrecognized Kind.
func FromRDatas(kind Kind, rd []RData) (CRSet, bool) {
	switch kind {
	case KindA:
		if len(rd) == 0 {
			return CRSet{}, false
		}
		addrs := make([]netip.Addr, len(rd))
		for i, r := range rd {
			if !r.Addr.IsValid() || !r.Addr.Is4() {
				return CRSet{}, false
			}
			addrs[i] = r.Addr
		}
		return CRSet{Kind: KindA, A: addrs}, true
	case KindAAAA:
		if len(rd) == 0 {
			return CRSet{}, false
		}
		addrs := make([]netip.Addr, len(rd))
		for i, r := range rd {
			if !r.Addr.IsValid() {
				return CRSet{}, false
			}
			addrs[i] = r.Addr
		}
		return CRSet{Kind: KindAAAA, AAAA: addrs}, true
	case KindNS:
		names, ok := rdatasToNames(rd)
		if !ok {
			return CRSet{}, false
		}
		return CRSet{Kind: KindNS, NS: names}, true
	case KindPTR:
		names, ok := rdatasToNames(rd)
		if !ok {
			return CRSet{}, false
		}
		return CRSet{Kind: KindPTR, PTR: names}, true
	case KindMX:
		if len(rd) == 0 {
			return CRSet{}, false
		}
		mxs := make([]MX, len(rd))
		for i, r := range rd {
			mxs[i] = r.MX
		}
		return CRSet{Kind: KindMX, MX: mxs}, true
	case KindTXT:
		if len(rd) == 0 {
			return CRSet{}, false
		}
		txt := make([][]byte, len(rd))
		for i, r := range rd {
			txt[i] = r.Txt
		}
		return CRSet{Kind: KindTXT, TXT: txt}, true
	case KindCNAME:
		if len(rd) != 1 {
			return CRSet{}, false
		}
		return CRSet{Kind: KindCNAME, CNAME: rd[0].Name}, true
	case KindSOA:
		if len(rd) != 1 {
			return CRSet{}, false
		}
		return CRSet{Kind: KindSOA, SOA: rd[0].SOA}, true
	default:
		return CRSet{}, false
	}
}

func rdatasToNames(rd []RData) ([]Name, bool) {
	if len(rd) == 0 {
		return nil, false
	}
	names := make([]Name, len(rd))
	for i, r := range rd {
		names[i] = r.Name
	}
	return names, true
}
