// Package reputation holds the badge eligibility rule: a user needs at least
// MinEndorsements endorsements and an average rating of at least the lowest
// tier threshold. Tiers are checked from highest to lowest with inclusive
// comparisons, so a mean sitting exactly on a boundary earns the higher tier.
package reputation

import "errors"

// MinEndorsements is the number of endorsements required before minting.
const MinEndorsements = 3

// Tier names as stored on the badge.
const (
	TierGold   = "🥇 Gold SkillLink Talent"
	TierSilver = "🥈 Silver SkillLink Talent"
	TierBronze = "🥉 Bronze SkillLink Talent"
)

// Tier thresholds on the mean rating (inclusive).
const (
	GoldThreshold   = 4.7
	SilverThreshold = 4.3
	BronzeThreshold = 4.0
)

var (
	// ErrNotEnoughEndorsements is returned when fewer than MinEndorsements ratings exist.
	ErrNotEnoughEndorsements = errors.New("not enough endorsements to mint NFT")
	// ErrRatingTooLow is returned when the mean rating is below BronzeThreshold.
	ErrRatingTooLow = errors.New("average rating too low to mint NFT")
)

// Result is the outcome of a successful evaluation.
type Result struct {
	Tier    string
	Average float64
	Count   int
}

// Average returns the arithmetic mean of ratings (0 for an empty slice).
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// TierFor maps a mean rating to a tier name. ok is false below BronzeThreshold.
func TierFor(avg float64) (tier string, ok bool) {
	switch {
	case avg >= GoldThreshold:
		return TierGold, true
	case avg >= SilverThreshold:
		return TierSilver, true
	case avg >= BronzeThreshold:
		return TierBronze, true
	default:
		return "", false
	}
}

// Evaluate applies the minting rule to a user's ratings.
func Evaluate(ratings []int) (Result, error) {
	if len(ratings) < MinEndorsements {
		return Result{Count: len(ratings)}, ErrNotEnoughEndorsements
	}
	avg := Average(ratings)
	tier, ok := TierFor(avg)
	if !ok {
		return Result{Average: avg, Count: len(ratings)}, ErrRatingTooLow
	}
	return Result{Tier: tier, Average: avg, Count: len(ratings)}, nil
}
