// Package rank implements the RFC 2181 §5.4.1 admission ranking that
// governs when a newly received RRSet may displace one already cached.
package rank

import "fmt"

// Ranking is a total order over the three admission tiers this cache
// distinguishes. Higher values supersede lower ones on insert; equal
// ranks never displace each other.
type Ranking uint8

const (
	// Additional is data from the additional section, or authority
	// section data from a non-authoritative reply.
	Additional Ranking = iota
	// Answer is data in the answer section of a non-authoritative
	// reply, or non-authoritative data in an authoritative reply's
	// answer section.
	Answer
	// AuthAnswer is data in the answer section of a reply whose
	// authoritative-answer flag is set. Strongest rank.
	AuthAnswer
)

// String renders the ranking for logs and diagnostics.
func (r Ranking) String() string {
	switch r {
	case Additional:
		return "additional"
	case Answer:
		return "answer"
	case AuthAnswer:
		return "auth-answer"
	default:
		return fmt.Sprintf("rank(%d)", uint8(r))
	}
}

// Supersedes reports whether r may displace an existing entry ranked
// existing. Equal ranks never displace: this makes the cache monotone
// under concurrent arrivals of the same key at different ranks.
func (r Ranking) Supersedes(existing Ranking) bool {
	return r > existing
}

// Valid reports whether r is one of the three defined tiers.
func (r Ranking) Valid() bool {
	return r == Additional || r == Answer || r == AuthAnswer
}
