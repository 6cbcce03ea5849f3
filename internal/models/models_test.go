// internal/models/models_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// TIER PARSING
// ==========================

func TestParseTier(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Tier
	}{
		{"uppercase small", "S", TierS},
		{"uppercase medium", "M", TierM},
		{"uppercase large", "L", TierL},
		{"lowercase medium", "m", TierM},
		{"lowercase large", "l", TierL},
		{"surrounding whitespace", "  L  ", TierL},
		{"empty degrades to free", "", TierS},
		{"unknown degrades to free", "XL", TierS},
		{"garbage degrades to free", "premium", TierS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTier(tt.raw))
		})
	}
}

func TestTierPaid(t *testing.T) {
	assert.False(t, TierS.Paid())
	assert.True(t, TierM.Paid())
	assert.True(t, TierL.Paid())
}

// ==========================
// DIMENSION CLASSIFICATION
// ==========================

func TestDimensionForQuestion(t *testing.T) {
	tests := []struct {
		id   string
		want Dimension
	}{
		{"dq_completeness", DimensionDataQuality},
		{"pm_change", DimensionProcessMaturity},
		{"au_discovery", DimensionAutomation},
		{"gov_policy", DimensionGovernance},
		{"misc_question", DimensionProcessMaturity},
		{"", DimensionProcessMaturity},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, DimensionForQuestion(tt.id))
		})
	}
}

func TestScoreSetForDimension(t *testing.T) {
	scores := ScoreSet{
		DataQuality:     10,
		ProcessMaturity: 20,
		Automation:      30,
		Governance:      40,
	}

	assert.Equal(t, 10, scores.ForDimension(DimensionDataQuality))
	assert.Equal(t, 20, scores.ForDimension(DimensionProcessMaturity))
	assert.Equal(t, 30, scores.ForDimension(DimensionAutomation))
	assert.Equal(t, 40, scores.ForDimension(DimensionGovernance))
}
