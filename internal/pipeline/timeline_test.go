package pipeline

import (
	"testing"
	"time"
)

func TestParseTimeline(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"2 horas", 2 * time.Hour},
		{"3 días", 72 * time.Hour},
		{"3 dias", 72 * time.Hour},
		{"1 semana", 7 * 24 * time.Hour},
		{"24horas", 24 * time.Hour},
		{"", 72 * time.Hour},
		{"pronto", 72 * time.Hour},
		{"0 horas", 72 * time.Hour},
	}
	for _, tc := range cases {
		if got := ParseTimeline(tc.in); got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
