// internal/workers/assessment/evaluate-assessment/handler.go
package evaluateassessment

import (
	"context"
	"encoding/json"
	"fmt"

	"confix-workers/internal/common/errors"
	"confix-workers/internal/common/logger"
	"confix-workers/internal/common/metrics"
	"confix-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "evaluate-assessment"
)

type Handler struct {
	config       *Config
	service      *Service
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, service *Service, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		service:      service,
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job,
			errors.NewBusinessRuleError(fmt.Sprintf("parse input: %v", err), "Invalid job variables"))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok {
			metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		}
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	tier := models.ParseTier(input.Plan)

	if missing := missingAnswers(input.QuestionIDs, input.Answers); len(missing) > 0 {
		return nil, errors.NewAnswersIncompleteError(missing)
	}

	result, evaluator, err := h.service.Evaluate(ctx, tier, input.Answers)
	if err != nil {
		return nil, err
	}

	metrics.AssessmentsScored.WithLabelValues(tier.String(), evaluator).Inc()

	assessmentID := uuid.New().String()
	h.logger.Info("assessment evaluated", map[string]interface{}{
		"sessionId":     input.SessionID,
		"assessmentId":  assessmentID,
		"tier":          tier.String(),
		"evaluator":     evaluator,
		"maturityLevel": result.MaturityLevel,
	})

	return &Output{
		AssessmentID: assessmentID,
		Plan:         tier.String(),
		Evaluator:    evaluator,
		Result:       result,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}
