// internal/workers/entitlement/grant-access/handler.go
package grantaccess

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"confix-workers/internal/common/errors"
	"confix-workers/internal/common/logger"
	"confix-workers/internal/common/metrics"
	"confix-workers/internal/entitlement"
	"confix-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "grant-access"
)

type Handler struct {
	config       *Config
	gate         *entitlement.Gate
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, gate *entitlement.Gate, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		gate:         gate,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "GRANT_STORE_FAILED").Inc()
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

	grant, consumed, err := h.gate.ConsumePaymentSignal(ctx, input.SessionID, tier, input.PaymentStatus)
	if err != nil {
		return nil, errors.NewGrantStoreFailedError(err)
	}

	output := &Output{
		Plan: tier.String(),
		// The payment query parameter is removed from the return URL
		// whenever a payment signal was present, consumed or not.
		ClearPaymentParam: input.PaymentStatus != "",
	}

	if !consumed {
		h.logger.Info("payment signal not consumable, no grant issued", map[string]interface{}{
			"sessionId":     input.SessionID,
			"tier":          tier.String(),
			"paymentStatus": input.PaymentStatus,
		})
		return output, nil
	}

	metrics.EntitlementGrantsIssued.WithLabelValues(tier.String()).Inc()

	h.logger.Info("access granted", map[string]interface{}{
		"sessionId": input.SessionID,
		"tier":      tier.String(),
		"expiresAt": grant.ExpiresAt.Format(time.RFC3339),
	})

	output.Granted = true
	output.ExpiresAt = grant.ExpiresAt.UTC().Format(time.RFC3339)
	return output, nil
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
