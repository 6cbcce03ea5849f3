// internal/workers/assessment/evaluate-assessment/validation.go
package evaluateassessment

import (
	"strings"

	"confix-workers/internal/models"
)

// missingAnswers returns the question ids from questionIDs that have no
// non-blank answer, preserving questionnaire order.
func missingAnswers(questionIDs []string, answers models.AnswerSet) []string {
	var missing []string
	for _, id := range questionIDs {
		if strings.TrimSpace(answers[id]) == "" {
			missing = append(missing, id)
		}
	}
	return missing
}
