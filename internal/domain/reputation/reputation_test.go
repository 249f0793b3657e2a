package reputation

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		wantTier string
		wantErr  error
	}{
		{"all fives", []int{5, 5, 5}, TierGold, nil},
		{"five five four sits below gold", []int{5, 5, 4}, TierSilver, nil},
		{"exact bronze boundary", []int{4, 4, 4}, TierBronze, nil},
		{"exact gold boundary", []int{5, 5, 5, 5, 5, 5, 5, 4, 4, 4}, TierGold, nil},
		{"exact silver boundary", []int{5, 5, 5, 4, 4, 4, 4, 4, 4, 4}, TierSilver, nil},
		{"too low", []int{3, 3, 3}, "", ErrRatingTooLow},
		{"just below bronze", []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 3}, "", ErrRatingTooLow},
		{"two endorsements", []int{5, 5}, "", ErrNotEnoughEndorsements},
		{"none", nil, "", ErrNotEnoughEndorsements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.ratings)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Evaluate(%v) error = %v, want %v", tt.ratings, err, tt.wantErr)
			}
			if res.Tier != tt.wantTier {
				t.Errorf("Evaluate(%v) tier = %q, want %q", tt.ratings, res.Tier, tt.wantTier)
			}
			if res.Count != len(tt.ratings) {
				t.Errorf("Evaluate(%v) count = %d, want %d", tt.ratings, res.Count, len(tt.ratings))
			}
		})
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Errorf("Average(nil) = %v, want 0", got)
	}
	if got := Average([]int{4, 4, 4}); got != 4.0 {
		t.Errorf("Average([4 4 4]) = %v, want 4", got)
	}
	if got := Average([]int{1, 2}); got != 1.5 {
		t.Errorf("Average([1 2]) = %v, want 1.5", got)
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
		ok   bool
	}{
		{5.0, TierGold, true},
		{4.7, TierGold, true},
		{4.69, TierSilver, true},
		{4.3, TierSilver, true},
		{4.29, TierBronze, true},
		{4.0, TierBronze, true},
		{3.99, "", false},
	}
	for _, tt := range tests {
		got, ok := TierFor(tt.avg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TierFor(%v) = (%q, %v), want (%q, %v)", tt.avg, got, ok, tt.want, tt.ok)
		}
	}
}
