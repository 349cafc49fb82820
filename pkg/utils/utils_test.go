package utils

import (
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 20); got != "hello" {
		t.Fatalf("short string should be unchanged, got %q", got)
	}
	if got := TruncateRunes("what is the vacation policy for new hires", 20); got != "what is the vacation" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateRunes("年假政策是什么样的，新员工有多少天年假可以使用", 20); len([]rune(got)) != 20 {
		t.Fatalf("expected 20 runes, got %d", len([]rune(got)))
	}
}

func TestRoundScore(t *testing.T) {
	cases := map[float64]float64{
		0.123456: 0.1235,
		0.42:     0.42,
		0.00009:  0.0001,
		1.0:      1.0,
	}
	for in, want := range cases {
		if got := RoundScore(in); got != want {
			t.Fatalf("RoundScore(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRandomStr(t *testing.T) {
	if got := RandomStr(32); len(got) != 32 {
		t.Fatalf("expected 32 chars, got %d", len(got))
	}
}
