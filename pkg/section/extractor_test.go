package section

import (
	"testing"

	"github.com/miekg/dns"

	"github.com/istra-dns/istra/pkg/rank"
)

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("dns.NewRR(%q): %v", s, err)
	}
	return rr
}

func TestRankForTable(t *testing.T) {
	cases := []struct {
		sec           Section
		authoritative bool
		wantOK        bool
		want          rank.Ranking
	}{
		{Answer, true, true, rank.AuthAnswer},
		{Answer, false, true, rank.Answer},
		{Authority, true, false, 0},
		{Authority, false, true, rank.Additional},
		{Additional, true, true, rank.Additional},
		{Additional, false, true, rank.Additional},
	}
	for _, c := range cases {
		got, ok := RankFor(c.sec, c.authoritative)
		if ok != c.wantOK {
			t.Errorf("RankFor(%v, %v) ok = %v, want %v", c.sec, c.authoritative, ok, c.wantOK)
			continue
		}
		if ok && got != c.want {
			t.Errorf("RankFor(%v, %v) = %v, want %v", c.sec, c.authoritative, got, c.want)
		}
	}
}

func TestExtractAnswerSection(t *testing.T) {
	msg := new(dns.Msg)
	msg.MsgHdr.Authoritative = true
	msg.Answer = []dns.RR{
		mustRR(t, "example.com. 300 IN A 192.0.2.1"),
		mustRR(t, "example.com. 300 IN A 192.0.2.2"),
	}

	accepted, rejected := Extract(msg, Answer)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(accepted) != 1 {
		t.Fatalf("got %d accepted groups, want 1", len(accepted))
	}
	if accepted[0].Rank != rank.AuthAnswer {
		t.Errorf("rank = %v, want AuthAnswer", accepted[0].Rank)
	}
}

func TestExtractDropsOPT(t *testing.T) {
	msg := new(dns.Msg)
	msg.SetEdns0(4096, false)
	msg.Extra = append(msg.Extra, mustRR(t, "example.com. 300 IN A 192.0.2.1"))

	accepted, rejected := Extract(msg, Additional)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(accepted) != 1 {
		t.Fatalf("got %d accepted groups, want 1 (OPT should be filtered)", len(accepted))
	}
}

func TestExtractAuthoritativeAuthoritySectionExcluded(t *testing.T) {
	msg := new(dns.Msg)
	msg.MsgHdr.Authoritative = true
	msg.Ns = []dns.RR{mustRR(t, "example.com. 300 IN NS ns1.example.com.")}

	accepted, rejected := Extract(msg, Authority)
	if accepted != nil || rejected != nil {
		t.Fatalf("expected no data from an authoritative reply's authority section, got accepted=%v rejected=%v", accepted, rejected)
	}
}

func TestExtractGroupsPreserveOrder(t *testing.T) {
	msg := new(dns.Msg)
	msg.Answer = []dns.RR{
		mustRR(t, "b.example.com. 300 IN A 192.0.2.1"),
		mustRR(t, "a.example.com. 300 IN A 192.0.2.2"),
	}
	accepted, _ := Extract(msg, Answer)
	if len(accepted) != 2 {
		t.Fatalf("got %d groups, want 2", len(accepted))
	}
	if accepted[0].Key.Name.String() != "b.example.com." {
		t.Errorf("first group name = %s, want first-seen order preserved", accepted[0].Key.Name)
	}
}

func TestExtractRejectsBadGroup(t *testing.T) {
	msg := new(dns.Msg)
	msg.Answer = []dns.RR{
		mustRR(t, "example.com. 300 IN CNAME a.example.net."),
		mustRR(t, "example.com. 300 IN CNAME b.example.net."),
	}
	accepted, rejected := Extract(msg, Answer)
	if len(accepted) != 0 {
		t.Fatalf("expected no accepted groups, got %+v", accepted)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected group, got %d", len(rejected))
	}
}
