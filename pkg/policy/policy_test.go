package policy

import (
	"testing"

	"github.com/istra-dns/istra/pkg/rank"
)

func TestNopNeverBypasses(t *testing.T) {
	b, err := Nop.Bypasses(Params{Name: "example.", Type: 1, Class: 1, Rank: rank.Answer, TTL: 60})
	if err != nil || b {
		t.Fatalf("Nop should never bypass, got (%v, %v)", b, err)
	}
}

func TestNewRejectsUnknownVariable(t *testing.T) {
	if _, err := New("bogus == 1"); err == nil {
		t.Fatal("expected an error for an unknown variable")
	}
}

func TestNewRejectsNonBooleanExpression(t *testing.T) {
	if _, err := New("ttl + 1"); err == nil {
		t.Fatal("expected an error for a non-boolean expression")
	}
}

func TestBypassesEvaluatesExpression(t *testing.T) {
	b, err := New("ttl < 5")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := b.Bypasses(Params{TTL: 1})
	if err != nil || !got {
		t.Fatalf("expected bypass for ttl=1, got (%v, %v)", got, err)
	}

	got, err = b.Bypasses(Params{TTL: 100})
	if err != nil || got {
		t.Fatalf("expected no bypass for ttl=100, got (%v, %v)", got, err)
	}
}

func TestBypassesByName(t *testing.T) {
	b, err := New(`name == "blocked.example."`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := b.Bypasses(Params{Name: "blocked.example."})
	if err != nil || !got {
		t.Fatalf("expected bypass, got (%v, %v)", got, err)
	}
}
