package rrset

import "github.com/istra-dns/istra/pkg/rank"

// Val is the (CRSet, Ranking) pair the cache stores per live Key.
type Val struct {
	CRS  CRSet
	Rank rank.Ranking
}
