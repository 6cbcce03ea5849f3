// internal/workers/entitlement/check-access/models.go
package checkaccess

type Input struct {
	SessionID string `json:"sessionId"`
	Plan      string `json:"plan"`
}

type Output struct {
	Plan           string `json:"plan"`
	AccessGranted  bool   `json:"accessGranted"`
	RedirectReason string `json:"redirectReason,omitempty"`
}

// Redirect reasons for the gateway following this task
const (
	RedirectUpgradeRequired = "upgrade_required"
)
