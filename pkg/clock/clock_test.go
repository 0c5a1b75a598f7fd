package clock

import "testing"

func TestSub(t *testing.T) {
	cases := []struct {
		t, u   Timestamp
		want   uint32
		wantOK bool
	}{
		{100, 90, 10, true},
		{100, 100, 0, true},
		{90, 100, 0, false},
	}
	for _, c := range cases {
		got, ok := c.t.Sub(c.u)
		if ok != c.wantOK || (ok && got != c.want) {
			t.Errorf("(%d).Sub(%d) = (%d, %v), want (%d, %v)", c.t, c.u, got, ok, c.want, c.wantOK)
		}
	}
}

func TestFakeClock(t *testing.T) {
	f := NewFake(100)
	if got := f.GetSec(); got != 100 {
		t.Fatalf("GetSec() = %d, want 100", got)
	}
	f.Set(200)
	if got := f.GetSec(); got != 200 {
		t.Fatalf("GetSec() = %d, want 200", got)
	}
	if got := f.Advance(50); got != 250 {
		t.Fatalf("Advance(50) = %d, want 250", got)
	}
	if got := f.GetSec(); got != 250 {
		t.Fatalf("GetSec() = %d, want 250", got)
	}
}

func TestGetTimeStrTail(t *testing.T) {
	f := NewFake(42)
	line := f.GetTimeStr()("hello")
	if line != "t=42 hello" {
		t.Fatalf("GetTimeStr()(\"hello\") = %q", line)
	}
}
