// internal/scoring/normalize_test.go
package scoring

import (
	"testing"

	"confix-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUpstream_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"empty body", ""},
		{"wrong top-level type", `[1, 2, 3]`},
		{"truncated object", `{"scores": {"data_quality": 5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := DecodeUpstream([]byte(tt.body))
			require.NotNil(t, raw)

			result := Normalize(raw)
			assert.Equal(t, models.ScoreSet{}, result.Scores)
			assert.Equal(t, models.MaturityInitial, result.MaturityLevel)
			assert.Empty(t, result.Risks)
			assert.Empty(t, result.Recommendations)
		})
	}
}

func TestNormalize_WellFormedPayload(t *testing.T) {
	body := `{
		"scores": {"data_quality": 73, "process_maturity": 55, "automation": 40, "governance": 62},
		"maturity_level": "Managed",
		"risks": ["risk one", "risk two"],
		"recommendations": [
			{"prio": 1, "text": "do this first"},
			{"prio": 2, "text": "then this"}
		]
	}`

	result := Normalize(DecodeUpstream([]byte(body)))

	assert.Equal(t, 73, result.Scores.DataQuality)
	assert.Equal(t, 55, result.Scores.ProcessMaturity)
	assert.Equal(t, 40, result.Scores.Automation)
	assert.Equal(t, 62, result.Scores.Governance)
	assert.Equal(t, models.MaturityManaged, result.MaturityLevel)
	assert.Equal(t, []string{"risk one", "risk two"}, result.Risks)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, models.Recommendation{Prio: 1, Text: "do this first"}, result.Recommendations[0])
}

func TestNormalize_EmptyObject(t *testing.T) {
	result := Normalize(DecodeUpstream([]byte(`{}`)))

	assert.Equal(t, models.ScoreSet{}, result.Scores)
	assert.Equal(t, models.MaturityInitial, result.MaturityLevel)
	assert.NotNil(t, result.Risks)
	assert.Empty(t, result.Risks)
	assert.NotNil(t, result.Recommendations)
	assert.Empty(t, result.Recommendations)
}

func TestNormalize_WrongTypes(t *testing.T) {
	body := `{
		"scores": {"data_quality": "88", "process_maturity": null, "automation": true, "governance": 55.6},
		"maturity_level": 17,
		"risks": "not a list",
		"recommendations": {"also": "not a list"}
	}`

	result := Normalize(DecodeUpstream([]byte(body)))

	// Numeric strings coerce, booleans and nulls fall back to 0
	assert.Equal(t, 88, result.Scores.DataQuality)
	assert.Equal(t, 0, result.Scores.ProcessMaturity)
	assert.Equal(t, 0, result.Scores.Automation)
	assert.Equal(t, 56, result.Scores.Governance)

	assert.Equal(t, models.MaturityInitial, result.MaturityLevel)
	assert.Empty(t, result.Risks)
	assert.Empty(t, result.Recommendations)
}

func TestNormalize_MalformedRecommendationEntry(t *testing.T) {
	body := `{
		"recommendations": [
			{"prio": 1, "text": "valid entry"},
			"just a string",
			{"prio": "3", "text": 42},
			null
		]
	}`

	result := Normalize(DecodeUpstream([]byte(body)))

	// Every entry produces a recommendation; malformed ones degrade in place.
	require.Len(t, result.Recommendations, 4)
	assert.Equal(t, models.Recommendation{Prio: 1, Text: "valid entry"}, result.Recommendations[0])
	assert.Equal(t, models.Recommendation{}, result.Recommendations[1])
	assert.Equal(t, models.Recommendation{Prio: 3, Text: ""}, result.Recommendations[2])
	assert.Equal(t, models.Recommendation{}, result.Recommendations[3])
}

func TestNormalize_NonStringRiskEntries(t *testing.T) {
	body := `{"risks": ["real risk", 42, null]}`

	result := Normalize(DecodeUpstream([]byte(body)))

	require.Len(t, result.Risks, 3)
	assert.Equal(t, "real risk", result.Risks[0])
	assert.Equal(t, "", result.Risks[1])
	assert.Equal(t, "", result.Risks[2])
}

func TestNormalize_NilInput(t *testing.T) {
	result := Normalize(nil)

	assert.Equal(t, models.ScoreSet{}, result.Scores)
	assert.Equal(t, models.MaturityInitial, result.MaturityLevel)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
	}{
		{"float rounds", 54.5, 55},
		{"int passes through", 12, 12},
		{"numeric string", "73", 73},
		{"float string", "73.4", 73},
		{"garbage string", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceInt(tt.input))
		})
	}
}
