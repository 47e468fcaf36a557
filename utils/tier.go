package utils

import (
	"math"

	"github.com/Aravind-508/SpiceRoute/models"
)

// Tier thresholds on cumulative lifetime spend and the earn rate (percent of
// an order's final total, floored) each tier grants.
const (
	TierSilverThreshold = 5000
	TierGoldThreshold   = 15000

	EarnRateBronze = 2
	EarnRateSilver = 4
	EarnRateGold   = 6
)

// ComputeTier maps cumulative lifetime spend to a loyalty tier and its earn
// rate percentage
func ComputeTier(cumulativeSpend float64) (string, int) {
	switch {
	case cumulativeSpend >= TierGoldThreshold:
		return models.TierGold, EarnRateGold
	case cumulativeSpend >= TierSilverThreshold:
		return models.TierSilver, EarnRateSilver
	default:
		return models.TierBronze, EarnRateBronze
	}
}

// ComputeEarn returns the coins earned for an order. The rate is taken from
// the tier the account lands in once this order's total is counted, so an
// order that pushes the account over a threshold earns at the new rate.
func ComputeEarn(priorSpend, finalTotal float64) int {
	_, rate := ComputeTier(priorSpend + finalTotal)
	return int(math.Floor(finalTotal * float64(rate) / 100))
}
