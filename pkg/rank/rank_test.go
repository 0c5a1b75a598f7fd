package rank

import "testing"

func TestSupersedes(t *testing.T) {
	cases := []struct {
		next, existing Ranking
		want           bool
	}{
		{AuthAnswer, Answer, true},
		{Answer, AuthAnswer, false},
		{Answer, Answer, false},
		{Additional, Additional, false},
		{Answer, Additional, true},
	}
	for _, c := range cases {
		if got := c.next.Supersedes(c.existing); got != c.want {
			t.Errorf("%s.Supersedes(%s) = %v, want %v", c.next, c.existing, got, c.want)
		}
	}
}

func TestOrdering(t *testing.T) {
	if !(Additional < Answer && Answer < AuthAnswer) {
		t.Fatal("ranking order must be Additional < Answer < AuthAnswer")
	}
}

func TestValid(t *testing.T) {
	for _, r := range []Ranking{Additional, Answer, AuthAnswer} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Ranking(99).Valid() {
		t.Error("99 should not be valid")
	}
}
