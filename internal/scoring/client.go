// internal/scoring/client.go
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "confix-workers/internal/common/http"
	"confix-workers/internal/models"
)

var (
	ErrEvaluationTimeout = errors.New("EVALUATION_API_TIMEOUT")
	ErrEvaluationFailed  = errors.New("EVALUATION_API_FAILED")
)

// Logger is the minimal logging surface the client needs.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ClientConfig configures the delegated evaluation API client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the remote evaluation API used for the paid tiers. The API
// response is untrusted; a reachable endpoint always yields a normalized
// result, while transport failures and non-OK statuses surface as retryable
// errors for the workflow to handle.
type Client struct {
	config *ClientConfig
	client *commonhttp.Client
	logger Logger
}

func NewClient(config *ClientConfig, log Logger) *Client {
	return &Client{
		config: config,
		client: commonhttp.NewClient(0), // per-call deadline comes from the context
		logger: log,
	}
}

type evaluationRequest struct {
	Answers models.AnswerSet `json:"answers"`
	Plan    string           `json:"plan"`
}

// Evaluate submits the answer set for remote scoring and normalizes whatever
// comes back. Malformed 200 bodies degrade to a zero-valued result instead of
// failing; only unreachable/non-OK upstreams return an error.
func (c *Client) Evaluate(ctx context.Context, answers models.AnswerSet, tier models.Tier) (*models.AssessmentResult, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	body, _ := json.Marshal(evaluationRequest{Answers: answers, Plan: tier.String()})
	req, err := http.NewRequest("POST", c.config.BaseURL+"/api/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			c.logger.Warn("evaluation API retry", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrEvaluationTimeout
			}
		}

		req.Body = io.NopCloser(bytes.NewReader(body))
		resp, lastErr = c.client.DoWithContext(ctx, req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, ErrEvaluationTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrEvaluationTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrEvaluationFailed)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrEvaluationFailed, err)
	}

	result := Normalize(DecodeUpstream(payload))
	c.logger.Info("delegated evaluation completed", map[string]interface{}{
		"plan":          tier.String(),
		"maturityLevel": string(result.MaturityLevel),
		"riskCount":     len(result.Risks),
	})
	return result, nil
}
