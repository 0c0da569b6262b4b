package domain

import "testing"

func TestTierFor(t *testing.T) {
	cases := []struct {
		badgeCount int
		wantRate   int
	}{
		{0, 0},
		{1, 5},
		{2, 5},
		{3, 10},
		{4, 10},
		{5, 15},
		{100, 15},
	}

	for _, tc := range cases {
		if got := TierFor(tc.badgeCount); got.Rate != tc.wantRate {
			t.Fatalf("TierFor(%d): expected rate %d, got %d", tc.badgeCount, tc.wantRate, got.Rate)
		}
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := TierFor(0).Rate
	for count := 1; count <= 20; count++ {
		rate := TierFor(count).Rate
		if rate < prev {
			t.Fatalf("tier rate dropped from %d to %d at count %d", prev, rate, count)
		}
		prev = rate
	}
}

func TestTierFor_Labels(t *testing.T) {
	if got := TierFor(0).Label; got != "no discount" {
		t.Fatalf("unexpected label for zero badges: %q", got)
	}
	if got := TierFor(5).Label; got != "15% discount + special coupon eligibility" {
		t.Fatalf("unexpected label for five badges: %q", got)
	}
}
