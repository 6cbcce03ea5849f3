// internal/scoring/normalize.go
package scoring

import (
	"encoding/json"
	"strconv"

	"confix-workers/internal/models"
)

// UpstreamResult is the untrusted, loosely-shaped payload returned by the
// remote evaluation API. Nothing in it may flow past Normalize without being
// coerced into the validated result types.
type UpstreamResult struct {
	Scores          map[string]interface{} `json:"scores"`
	MaturityLevel   interface{}            `json:"maturity_level"`
	Risks           interface{}            `json:"risks"`
	Recommendations interface{}            `json:"recommendations"`
}

// DecodeUpstream parses a raw evaluation API body. A body that does not parse
// at all yields an empty UpstreamResult, never an error; Normalize turns that
// into a zero-valued result.
func DecodeUpstream(body []byte) *UpstreamResult {
	var raw UpstreamResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return &UpstreamResult{}
	}
	return &raw
}

// coerceInt accepts the numeric shapes JSON decoding can produce plus numeric
// strings, falling back to 0 for everything else.
func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n + 0.5)
	case int:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(f + 0.5)
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f + 0.5)
		}
	}
	return 0
}

func coerceString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Normalize bridges the untrusted upstream shape into a well-formed
// AssessmentResult. Every field degrades to a safe default: numbers to 0,
// the maturity level to Initial, sequences to empty slices. A malformed
// recommendation entry is defaulted in place without discarding its
// neighbours. Normalize never fails.
func Normalize(raw *UpstreamResult) *models.AssessmentResult {
	if raw == nil {
		raw = &UpstreamResult{}
	}

	result := &models.AssessmentResult{
		Scores: models.ScoreSet{
			DataQuality:     coerceInt(raw.Scores[string(models.DimensionDataQuality)]),
			ProcessMaturity: coerceInt(raw.Scores[string(models.DimensionProcessMaturity)]),
			Automation:      coerceInt(raw.Scores[string(models.DimensionAutomation)]),
			Governance:      coerceInt(raw.Scores[string(models.DimensionGovernance)]),
		},
		MaturityLevel:   models.MaturityInitial,
		Risks:           []string{},
		Recommendations: []models.Recommendation{},
	}

	if level := coerceString(raw.MaturityLevel); level != "" {
		result.MaturityLevel = models.MaturityLevel(level)
	}

	if risks, ok := raw.Risks.([]interface{}); ok {
		for _, r := range risks {
			result.Risks = append(result.Risks, coerceString(r))
		}
	}

	if recs, ok := raw.Recommendations.([]interface{}); ok {
		for _, r := range recs {
			entry, _ := r.(map[string]interface{})
			result.Recommendations = append(result.Recommendations, models.Recommendation{
				Prio: coerceInt(entry["prio"]),
				Text: coerceString(entry["text"]),
			})
		}
	}

	return result
}
