// internal/workers/assessment/evaluate-assessment/models.go
package evaluateassessment

import "confix-workers/internal/models"

type Input struct {
	SessionID   string           `json:"sessionId"`
	Plan        string           `json:"plan"`
	QuestionIDs []string         `json:"questionIds"`
	Answers     models.AnswerSet `json:"answers"`
}

type Output struct {
	AssessmentID string                   `json:"assessmentId"`
	Plan         string                   `json:"plan"`
	Evaluator    string                   `json:"evaluator"`
	Result       *models.AssessmentResult `json:"result"`
}

// Evaluator identifiers reported back to the process
const (
	EvaluatorStatic    = "static"
	EvaluatorDelegated = "delegated"
)
