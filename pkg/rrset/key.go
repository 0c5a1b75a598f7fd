package rrset

import "strings"

// Name is the cache's own compact representation of a domain or
// mailbox label. It is deliberately a fresh, minimally sized copy —
// never a substring of a wire-parser buffer — so a cache entry never
// pins a much larger DNS packet in memory. See TakeRRSet and
// ExtractRRSet for the conversion boundary with github.com/miekg/dns.
type Name string

// NewName copies s into an independent backing array. Callers should
// always route wire-library strings through NewName before they enter
// a Key, CRSet, or Val that may live in the cache past the call that
// produced them.
func NewName(s string) Name {
	return Name(strings.Clone(s))
}

func (n Name) String() string { return string(n) }

// Key identifies one cached RRSet by owner name, type, and class.
// Equality and ordering are structural; name comparison is
// case-sensitive at the octet level, inheriting whatever
// canonicalization the wire layer already performed.
type Key struct {
	Name  Name
	Type  uint16
	Class uint16
}

// Less gives Key a total order, used to break eol ties during
// capacity eviction (spec: "Ties (same eol) break by Key order").
func (k Key) Less(other Key) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	if k.Type != other.Type {
		return k.Type < other.Type
	}
	return k.Class < other.Class
}
