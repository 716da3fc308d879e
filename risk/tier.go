// Package risk maps numeric probabilities to discrete display tiers.
//
// Tiers are a presentation concern: they color and label outcomes in the
// interface and are never persisted. Classification is total over all
// float inputs; values below the valid percentage range classify as low
// and values above it as high.
package risk

import "fmt"

// Tier represents the discrete risk classification of a probability.
type Tier string

const (
	// TierLow indicates a probability below 30 percent.
	TierLow Tier = "low"

	// TierMedium indicates a probability between 30 and 70 percent inclusive.
	TierMedium Tier = "medium"

	// TierHigh indicates a probability above 70 percent.
	TierHigh Tier = "high"
)

// Classification boundaries. Both are inclusive to the medium tier.
const (
	// MediumLowerBound is the smallest probability classified as medium.
	MediumLowerBound = 30.0

	// MediumUpperBound is the largest probability classified as medium.
	MediumUpperBound = 70.0
)

// Classify maps a probability percentage to its risk tier.
//
// Inputs outside [0,100] are not clamped: negative values classify as low
// and values above 100 as high, keeping the function total.
func Classify(probability float64) Tier {
	switch {
	case probability < MediumLowerBound:
		return TierLow
	case probability <= MediumUpperBound:
		return TierMedium
	default:
		return TierHigh
	}
}

// tierRanks orders tiers for comparison. Higher ranks indicate more risk.
var tierRanks = map[Tier]int{
	TierLow:    1,
	TierMedium: 2,
	TierHigh:   3,
}

// IsValid returns true if the tier is a valid value.
func (t Tier) IsValid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// DisplayName returns a human-readable display name for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierLow:
		return "Low"
	case TierMedium:
		return "Medium"
	case TierHigh:
		return "High"
	default:
		return string(t)
	}
}

// Color returns the conventional display color name for the tier.
func (t Tier) Color() string {
	switch t {
	case TierLow:
		return "green"
	case TierMedium:
		return "yellow"
	case TierHigh:
		return "red"
	default:
		return ""
	}
}

// Rank returns the ordering rank of the tier, from 1 (low) to 3 (high).
// Returns 0 for invalid tiers.
func (t Tier) Rank() int {
	return tierRanks[t]
}

// ParseTier parses a string into a Tier value.
// Returns an error if the string is not a valid tier.
func ParseTier(s string) (Tier, error) {
	tier := Tier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid risk tier: %s", s)
	}
	return tier, nil
}

// CompareTiers compares two tiers by rank.
// Returns:
//   - negative if t1 < t2
//   - zero if t1 == t2
//   - positive if t1 > t2
func CompareTiers(t1, t2 Tier) int {
	return t1.Rank() - t2.Rank()
}

// AllTiers returns all valid tiers in order from low to high.
func AllTiers() []Tier {
	return []Tier{TierLow, TierMedium, TierHigh}
}
