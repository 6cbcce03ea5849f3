// internal/models/assessment.go
package models

import "time"

// Question is a single multiple-choice question from a tier-keyed question
// set. Immutable once loaded; the id prefix carries the scoring dimension.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// AnswerSet maps question ids to the selected option text. Unanswered
// questions are absent, never present with an empty value.
type AnswerSet map[string]string

// MaturityLevel is the ordered maturity classification derived from the
// overall score.
type MaturityLevel string

const (
	MaturityInitial    MaturityLevel = "Initial"
	MaturityRepeatable MaturityLevel = "Repeatable"
	MaturityDefined    MaturityLevel = "Defined"
	MaturityManaged    MaturityLevel = "Managed"
	MaturityOptimizing MaturityLevel = "Optimizing"
)

// ScoreSet holds the per-dimension scores, each an integer in [0,100].
type ScoreSet struct {
	DataQuality     int `json:"data_quality"`
	ProcessMaturity int `json:"process_maturity"`
	Automation      int `json:"automation"`
	Governance      int `json:"governance"`
}

// ForDimension returns the score recorded for a dimension.
func (s ScoreSet) ForDimension(d Dimension) int {
	switch d {
	case DimensionDataQuality:
		return s.DataQuality
	case DimensionAutomation:
		return s.Automation
	case DimensionGovernance:
		return s.Governance
	default:
		return s.ProcessMaturity
	}
}

// Recommendation is a prioritized improvement suggestion. Priority 1 is the
// most urgent.
type Recommendation struct {
	Prio int    `json:"prio"`
	Text string `json:"text"`
}

// AssessmentResult is the structured outcome of a scoring run. Created fresh
// per invocation and handed back to the workflow; never persisted.
type AssessmentResult struct {
	Scores          ScoreSet         `json:"scores"`
	MaturityLevel   MaturityLevel    `json:"maturity_level"`
	Risks           []string         `json:"risks"`
	Recommendations []Recommendation `json:"recommendations"`
}

// EntitlementGrant is a time-boxed entitlement to a paid tier, stored per
// subject in the grant store.
type EntitlementGrant struct {
	Tier      Tier      `json:"tier"`
	ExpiresAt time.Time `json:"expiresAt"`
}
