// internal/workers/assessment/evaluate-assessment/service.go
package evaluateassessment

import (
	"context"
	stderrors "errors"

	"confix-workers/internal/common/errors"
	"confix-workers/internal/models"
	"confix-workers/internal/scoring"
)

// DelegatedEvaluator is the upstream scoring API used for paid tiers.
type DelegatedEvaluator interface {
	Evaluate(ctx context.Context, answers models.AnswerSet, tier models.Tier) (*models.AssessmentResult, error)
}

// Service routes an answer set to the right evaluator. The free tier scores
// locally, paid tiers delegate to the scoring API.
type Service struct {
	delegated DelegatedEvaluator
}

func NewService(delegated DelegatedEvaluator) *Service {
	return &Service{delegated: delegated}
}

func (s *Service) Evaluate(ctx context.Context, tier models.Tier, answers models.AnswerSet) (*models.AssessmentResult, string, error) {
	if !tier.Paid() || s.delegated == nil {
		return scoring.EvaluateStatic(answers), EvaluatorStatic, nil
	}

	result, err := s.delegated.Evaluate(ctx, answers, tier)
	if err != nil {
		if stderrors.Is(err, scoring.ErrEvaluationTimeout) {
			return nil, "", errors.NewEvaluationTimeoutError()
		}
		return nil, "", errors.NewEvaluationFailedError(err)
	}
	return result, EvaluatorDelegated, nil
}
