// internal/models/tier.go
package models

import "strings"

// Tier identifies an assessment package level. S is the free tier, M and L
// are the paid tiers gating question-set size and evaluation strategy.
type Tier string

const (
	TierS Tier = "S"
	TierM Tier = "M"
	TierL Tier = "L"
)

// ParseTier normalizes a raw plan selector. Anything that is not exactly
// "M" or "L" after trimming and upper-casing degrades to the free tier,
// never to an error.
func ParseTier(raw string) Tier {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M":
		return TierM
	case "L":
		return TierL
	default:
		return TierS
	}
}

// Paid reports whether the tier requires an entitlement grant.
func (t Tier) Paid() bool {
	return t == TierM || t == TierL
}

func (t Tier) String() string {
	return string(t)
}
