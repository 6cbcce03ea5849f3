// internal/workers/entitlement/grant-access/models.go
package grantaccess

type Input struct {
	SessionID     string `json:"sessionId"`
	Plan          string `json:"plan"`
	PaymentStatus string `json:"paymentStatus"`
}

type Output struct {
	Plan              string `json:"plan"`
	Granted           bool   `json:"granted"`
	ExpiresAt         string `json:"expiresAt,omitempty"`
	ClearPaymentParam bool   `json:"clearPaymentParam"`
}
