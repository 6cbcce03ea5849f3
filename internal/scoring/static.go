// internal/scoring/static.go
package scoring

import (
	"strings"

	"confix-workers/internal/models"
)

// maturityLabels maps qualitative option labels to numeric levels. Matching
// is case-sensitive substring containment; when an option text contains more
// than one label, the first match in this order wins. That ordering is part
// of the scoring contract and must not be reordered.
var maturityLabels = []struct {
	Label string
	Level int
}{
	{"Not present", 0},
	{"Initial", 25},
	{"Repeatable", 50},
	{"Defined", 75},
	{"Optimized", 100},
}

// Static risk rules, evaluated in this order. Each fires when the dimension
// score is below 50.
var riskRules = []struct {
	Dimension models.Dimension
	Message   string
}{
	{models.DimensionDataQuality, "Low data quality increases the risk of wrong dependencies and flawed impact analyses."},
	{models.DimensionProcessMaturity, "Unclear processes lead to inconsistent CMDB upkeep and rising operating costs."},
	{models.DimensionGovernance, "Missing governance weakens ownership, auditability and sustained improvement."},
	{models.DimensionAutomation, "Low automation drives manual effort and lets the CMDB go stale faster."},
}

const riskCount = 3

// genericRisk pads the risk list up to riskCount when fewer rules fired.
const genericRisk = "Improvement potential in CMDB/SACM - a deeper analysis (M or L package) is recommended."

// staticRecommendations are returned verbatim by the free tier, independent
// of the answers.
var staticRecommendations = []models.Recommendation{
	{Prio: 1, Text: "Define responsibilities (CI owners) and minimum attributes per CI class, and make upkeep rules binding."},
	{Prio: 2, Text: "Introduce data quality checks (completeness, freshness, duplicates) and establish a correction workflow."},
	{Prio: 3, Text: "Build a service and dependency view (business services down to CIs) and validate it with the business units."},
}

// scoreValue maps a selected option text to its numeric level. Options that
// match no known label score 0.
func scoreValue(option string) int {
	for _, l := range maturityLabels {
		if strings.Contains(option, l.Label) {
			return l.Level
		}
	}
	return 0
}

// RecognizedLabel reports whether an option text contains any maturity
// label. Options failing this check score 0, which the question linter
// treats as an authoring mistake.
func RecognizedLabel(option string) bool {
	for _, l := range maturityLabels {
		if strings.Contains(option, l.Label) {
			return true
		}
	}
	return false
}

// clamp rounds to the nearest integer and bounds the result to [0,100].
func clamp(n float64) int {
	v := int(n + 0.5)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// mean of an empty slice is defined as 0, never NaN.
func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// maturityForScore classifies an overall score into half-open bins; only the
// top bin is closed at 100.
func maturityForScore(overall int) models.MaturityLevel {
	switch {
	case overall < 20:
		return models.MaturityInitial
	case overall < 40:
		return models.MaturityRepeatable
	case overall < 60:
		return models.MaturityDefined
	case overall < 80:
		return models.MaturityManaged
	default:
		return models.MaturityOptimizing
	}
}

// EvaluateStatic scores a complete answer set locally. It is the free-tier
// evaluation path: deterministic, no network, always exactly three risks and
// the same three recommendations.
func EvaluateStatic(answers models.AnswerSet) *models.AssessmentResult {
	buckets := map[models.Dimension][]int{}
	for id, selected := range answers {
		dim := models.DimensionForQuestion(id)
		buckets[dim] = append(buckets[dim], scoreValue(selected))
	}

	scores := models.ScoreSet{
		DataQuality:     clamp(mean(buckets[models.DimensionDataQuality])),
		ProcessMaturity: clamp(mean(buckets[models.DimensionProcessMaturity])),
		Automation:      clamp(mean(buckets[models.DimensionAutomation])),
		Governance:      clamp(mean(buckets[models.DimensionGovernance])),
	}

	overall := clamp(float64(scores.DataQuality+scores.ProcessMaturity+scores.Automation+scores.Governance) / 4)

	risks := make([]string, 0, riskCount)
	for _, rule := range riskRules {
		if scores.ForDimension(rule.Dimension) < 50 {
			risks = append(risks, rule.Message)
		}
	}
	for len(risks) < riskCount {
		risks = append(risks, genericRisk)
	}
	risks = risks[:riskCount]

	recommendations := make([]models.Recommendation, len(staticRecommendations))
	copy(recommendations, staticRecommendations)

	return &models.AssessmentResult{
		Scores:          scores,
		MaturityLevel:   maturityForScore(overall),
		Risks:           risks,
		Recommendations: recommendations,
	}
}
