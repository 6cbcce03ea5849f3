// internal/entitlement/gate.go
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"confix-workers/internal/common/logger"
	"confix-workers/internal/models"
)

const (
	// DefaultGrantTTL is the entitlement window a successful payment buys.
	DefaultGrantTTL = 30 * 24 * time.Hour

	// PaymentStatusSuccess is the only payment marker that grants access.
	PaymentStatusSuccess = "success"

	defaultKeyPrefix = "confix:access"
)

var ErrGrantStoreFailed = errors.New("GRANT_STORE_FAILED")

// Gate decides per-tier access and manages the grant lifecycle. The free
// tier needs no grant; paid tiers need a non-expired grant for exactly that
// tier. Grants never cascade between tiers.
type Gate struct {
	store     GrantStore
	ttl       time.Duration
	keyPrefix string
	now       func() time.Time
	logger    logger.Logger
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithGrantTTL overrides the 30-day grant window.
func WithGrantTTL(ttl time.Duration) GateOption {
	return func(g *Gate) { g.ttl = ttl }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithKeyPrefix overrides the grant key namespace.
func WithKeyPrefix(prefix string) GateOption {
	return func(g *Gate) { g.keyPrefix = prefix }
}

func NewGate(store GrantStore, log logger.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		store:     store,
		ttl:       DefaultGrantTTL,
		keyPrefix: defaultKeyPrefix,
		now:       time.Now,
		logger:    log.WithFields(map[string]interface{}{"component": "entitlement-gate"}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) key(subject string, tier models.Tier) string {
	return g.keyPrefix + ":" + subject + ":" + tier.String()
}

// HasAccess answers whether the subject may use the tier right now. S is
// always allowed. A stored grant past its expiry is deleted on this read so
// the check is idempotent and self-healing; the next read sees no grant.
// Denial is a normal decision, not an error.
func (g *Gate) HasAccess(ctx context.Context, subject string, tier models.Tier) (bool, error) {
	if !tier.Paid() {
		return true, nil
	}

	val, ok, err := g.store.Get(ctx, g.key(subject, tier))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGrantStoreFailed, err)
	}
	if !ok {
		return false, nil
	}

	expiresMilli, parseErr := strconv.ParseInt(val, 10, 64)
	expired := parseErr != nil || g.now().UnixMilli() > expiresMilli
	if expired {
		if err := g.store.Del(ctx, g.key(subject, tier)); err != nil {
			return false, fmt.Errorf("%w: %v", ErrGrantStoreFailed, err)
		}
		g.logger.Debug("expired grant removed", map[string]interface{}{
			"subject": subject,
			"tier":    tier.String(),
		})
		return false, nil
	}

	return true, nil
}

// GrantAccess unconditionally writes a grant expiring at now+TTL,
// overwriting any prior grant for the tier. Re-granting resets the window;
// a successful payment always wins.
func (g *Gate) GrantAccess(ctx context.Context, subject string, tier models.Tier) (models.EntitlementGrant, error) {
	if !tier.Paid() {
		return models.EntitlementGrant{}, fmt.Errorf("tier %q does not take grants", tier)
	}

	expires := g.now().Add(g.ttl)
	value := strconv.FormatInt(expires.UnixMilli(), 10)
	if err := g.store.Set(ctx, g.key(subject, tier), value, g.ttl); err != nil {
		return models.EntitlementGrant{}, fmt.Errorf("%w: %v", ErrGrantStoreFailed, err)
	}

	g.logger.Info("grant written", map[string]interface{}{
		"subject":   subject,
		"tier":      tier.String(),
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
	return models.EntitlementGrant{Tier: tier, ExpiresAt: expires}, nil
}

// ConsumePaymentSignal applies a payment processor callback. Only a
// "success" status for a paid tier grants anything; everything else is
// ignored without error. The returned flag tells the caller to strip the
// payment marker from the externally visible request state. Replaying a
// success signal is harmless: it only re-extends the grant.
func (g *Gate) ConsumePaymentSignal(ctx context.Context, subject string, tier models.Tier, paymentStatus string) (models.EntitlementGrant, bool, error) {
	if paymentStatus != PaymentStatusSuccess || !tier.Paid() {
		return models.EntitlementGrant{}, false, nil
	}

	grant, err := g.GrantAccess(ctx, subject, tier)
	if err != nil {
		return models.EntitlementGrant{}, false, err
	}
	return grant, true, nil
}
