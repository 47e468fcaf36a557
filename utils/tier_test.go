package utils

import (
	"testing"

	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeTier(t *testing.T) {
	tests := []struct {
		name     string
		spend    float64
		wantTier string
		wantRate int
	}{
		{"zero spend is Bronze", 0, models.TierBronze, 2},
		{"just below Silver threshold", 4999.99, models.TierBronze, 2},
		{"Silver threshold", 5000, models.TierSilver, 4},
		{"mid Silver", 10000, models.TierSilver, 4},
		{"just below Gold threshold", 14999.99, models.TierSilver, 4},
		{"Gold threshold", 15000, models.TierGold, 6},
		{"deep Gold", 100000, models.TierGold, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, rate := ComputeTier(tt.spend)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantRate, rate)
		})
	}
}

func TestComputeEarn(t *testing.T) {
	tests := []struct {
		name       string
		priorSpend float64
		finalTotal float64
		wantCoins  int
	}{
		// 4600 + 999 = 5599 lands in Silver, so the order earns at 4%
		{"order pushes account into Silver", 4600, 999, 39},
		{"small Bronze order", 0, 100, 2},
		{"Bronze order too small to earn", 0, 49, 0},
		{"order pushes account into Gold", 14500, 600, 36},
		{"Gold order", 20000, 1000, 60},
		{"zero total earns nothing", 5000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCoins, ComputeEarn(tt.priorSpend, tt.finalTotal))
		})
	}
}
