// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Assessment / scoring
	ErrCodeAnswersIncomplete    ErrorCode = "ANSWERS_INCOMPLETE"
	ErrCodeEvaluationAPIFailed  ErrorCode = "EVALUATION_API_FAILED"
	ErrCodeEvaluationAPITimeout ErrorCode = "EVALUATION_API_TIMEOUT"

	// Question source
	ErrCodeQuestionsNotFound   ErrorCode = "QUESTIONS_NOT_FOUND"
	ErrCodeQuestionsLoadFailed ErrorCode = "QUESTIONS_LOAD_FAILED"
	ErrCodeQuestionSetInvalid  ErrorCode = "QUESTION_SET_INVALID"

	// Entitlement grants
	ErrCodeGrantStoreFailed ErrorCode = "GRANT_STORE_FAILED"

	// Generic infrastructure
	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRule     ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewAnswersIncompleteError creates the non-retryable business error the
// process surfaces as an "answer all questions" validation message.
func NewAnswersIncompleteError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswersIncomplete,
		Message:   "Answer set is incomplete",
		Details:   fmt.Sprintf("unanswered question ids: %s", strings.Join(missing, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"missingCount": len(missing)},
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationFailedError creates a retryable upstream error for the
// delegated evaluation API.
func NewEvaluationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationAPIFailed,
		Message:   "Evaluation API request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationTimeoutError creates a retryable timeout error for the
// delegated evaluation API.
func NewEvaluationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationAPITimeout,
		Message:   "Evaluation API timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionsNotFoundError creates a non-retryable question source error.
func NewQuestionsNotFoundError(tier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionsNotFound,
		Message:   "No question set registered for tier",
		Details:   fmt.Sprintf("tier: %s", tier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionsLoadFailedError creates a retryable question source error.
func NewQuestionsLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionsLoadFailed,
		Message:   "Question set could not be loaded",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionSetInvalidError creates a non-retryable schema validation error.
func NewQuestionSetInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionSetInvalid,
		Message:   "Question set failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGrantStoreFailedError creates a retryable grant store error.
func NewGrantStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGrantStoreFailed,
		Message:   "Grant store error during entitlement operation",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewBusinessRuleError(details, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBusinessRule,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical
// by convention, so BPMN boundary events can match on the internal names).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeAnswersIncomplete:    "ANSWERS_INCOMPLETE",
	ErrCodeEvaluationAPIFailed:  "EVALUATION_API_FAILED",
	ErrCodeEvaluationAPITimeout: "EVALUATION_API_TIMEOUT",
	ErrCodeQuestionsNotFound:    "QUESTIONS_NOT_FOUND",
	ErrCodeQuestionsLoadFailed:  "QUESTIONS_LOAD_FAILED",
	ErrCodeQuestionSetInvalid:   "QUESTION_SET_INVALID",
	ErrCodeGrantStoreFailed:     "GRANT_STORE_FAILED",
	ErrCodeExternalService:      "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:              "TIMEOUT_ERROR",
	ErrCodeResourceNotFound:     "RESOURCE_NOT_FOUND",
	ErrCodeBusinessRule:         "BUSINESS_RULE_VIOLATION",
	ErrCodeAuthentication:       "AUTHENTICATION_ERROR",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEvaluationAPIFailed,
		ErrCodeQuestionsLoadFailed,
		ErrCodeGrantStoreFailed,
		ErrCodeExternalService:
		return 3 // Retryable technical errors

	case ErrCodeTimeout:
		return 2

	case ErrCodeEvaluationAPITimeout:
		return 1 // As per BPMN boundary event

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ANSWERS"):
		return "VALIDATION"
	case strings.Contains(codeStr, "QUESTION"):
		return "QUESTIONS"
	case strings.Contains(codeStr, "EVALUATION"):
		return "EVALUATION"
	case strings.Contains(codeStr, "GRANT"):
		return "ENTITLEMENT"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
