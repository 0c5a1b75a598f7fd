// Package policy adds a configurable cache-admission bypass: an
// operator expression, evaluated per candidate RRSet, that can force
// "never cache this" independent of RFC 2181 ranking. This is a
// supplemented feature (see SPEC_FULL.md §4) grounded on
// pkg/executable_seq's ConditionNode/conditionMatcher, which evaluates
// a github.com/Knetic/govaluate expression against named matchers on
// every query; here the "matchers" are simply the candidate's own
// fields, so no matcher registry is needed.
package policy

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/istra-dns/istra/pkg/rank"
)

// Params is the set of fields a bypass expression may reference:
// name, type, class, rank, and ttl.
type Params struct {
	Name  string
	Type  uint16
	Class uint16
	Rank  rank.Ranking
	TTL   uint32
}

func (p Params) asGovaluate() govaluate.MapParameters {
	return govaluate.MapParameters{
		"name":  p.Name,
		"type":  float64(p.Type),
		"class": float64(p.Class),
		"rank":  float64(p.Rank),
		"ttl":   float64(p.TTL),
	}
}

// Bypass is a parsed admission-bypass expression. A Bypass with no
// expression — the zero value, Nop, or a nil *Bypass — never bypasses;
// Nop is the named form of that default, the same
// nil-matcher-is-a-no-op convention ConditionNode uses.
type Bypass struct {
	expr *govaluate.EvaluableExpression
}

// Nop never bypasses the cache. It is the default policy.
var Nop = &Bypass{}

// New parses expr and type-checks it against Params' fields, the same
// eager-checked-at-construction discipline newConditionMatcher uses:
// a typo in a config-supplied expression should fail at load time, not
// on the first matching query.
func New(expr string) (*Bypass, error) {
	if expr == "" {
		return Nop, nil
	}
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("policy: invalid bypass expression: %w", err)
	}

	dummy := Params{Name: "example.", Type: 1, Class: 1, Rank: rank.Answer, TTL: 1}.asGovaluate()
	for _, v := range e.Vars() {
		if _, ok := dummy[v]; !ok {
			return nil, fmt.Errorf("policy: unknown variable %q, want one of name/type/class/rank/ttl", v)
		}
	}
	out, err := e.Eval(dummy)
	if err != nil {
		return nil, fmt.Errorf("policy: invalid bypass expression: %w", err)
	}
	if _, ok := out.(bool); !ok {
		return nil, fmt.Errorf("policy: bypass expression must evaluate to a boolean, got %T", out)
	}

	return &Bypass{expr: e}, nil
}

// Bypasses reports whether the cache should refuse to admit a
// candidate with the given params. A nil expr (Nop, or Bypass{})
// always reports false.
func (b *Bypass) Bypasses(p Params) (bool, error) {
	if b == nil || b.expr == nil {
		return false, nil
	}
	out, err := b.expr.Eval(p.asGovaluate())
	if err != nil {
		return false, fmt.Errorf("policy: eval failed: %w", err)
	}
	res, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("policy: expression returned non-boolean: %v", out)
	}
	return res, nil
}
