// internal/entitlement/gate_test.go
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confix-workers/internal/common/logger"
	"confix-workers/internal/models"
)

// ==========================
// TEST HELPERS
// ==========================

func setupRedisStore(t *testing.T) (*RedisGrantStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisGrantStore(client), mr
}

// fakeClock is a settable time source for exercising grant expiry.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestGate(t *testing.T, store GrantStore, clock *fakeClock) *Gate {
	t.Helper()
	return NewGate(store, logger.NewTestLogger(t), WithClock(clock.Now))
}

// failingStore returns the wrapped error from every operation.
type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) (string, bool, error) { return "", false, s.err }
func (s failingStore) Set(context.Context, string, string, time.Duration) error {
	return s.err
}
func (s failingStore) Del(context.Context, string) error { return s.err }

// ==========================
// ACCESS CHECKS
// ==========================

func TestHasAccess_FreeTierAlwaysAllowed(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierS)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestHasAccess_PaidTierWithoutGrantDenied(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	for _, tier := range []models.Tier{models.TierM, models.TierL} {
		granted, err := gate.HasAccess(context.Background(), "session-1", tier)
		require.NoError(t, err)
		assert.False(t, granted, "tier %s must be denied without a grant", tier)
	}
}

func TestHasAccess_GrantedTierAllowed(t *testing.T) {
	store, _ := setupRedisStore(t)
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, store, clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestHasAccess_GrantsDoNotCascadeBetweenTiers(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierL)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasAccess_GrantsAreScopedPerSubject(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	granted, err := gate.HasAccess(context.Background(), "session-2", models.TierM)
	require.NoError(t, err)
	assert.False(t, granted)
}

// ==========================
// EXPIRY
// ==========================

func TestHasAccess_ExpiredGrantDeniedAndRemoved(t *testing.T) {
	store := NewMemoryGrantStore()
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, store, clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	clock.Advance(31 * 24 * time.Hour)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.False(t, granted)

	// The expired record was deleted during the read.
	_, ok, err := store.Get(context.Background(), "confix:access:session-1:M")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAccess_GrantValidUntilWindowEnds(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierL)
	require.NoError(t, err)

	clock.Advance(29 * 24 * time.Hour)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierL)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestGrantAccess_RegrantResetsExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	clock.Advance(20 * 24 * time.Hour)
	second, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(DefaultGrantTTL), second.ExpiresAt)

	// 25 days after the re-grant. The first window would have lapsed.
	clock.Advance(25 * 24 * time.Hour)
	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestHasAccess_GarbageGrantValueTreatedAsExpired(t *testing.T) {
	store := NewMemoryGrantStore()
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, store, clock)

	require.NoError(t, store.Set(context.Background(), "confix:access:session-1:M", "not-a-timestamp", 0))

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.False(t, granted)
}

// ==========================
// GRANT WRITES
// ==========================

func TestGrantAccess_FreeTierRejected(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierS)
	require.Error(t, err)
}

func TestGrantAccess_CustomTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := NewGate(NewMemoryGrantStore(), logger.NewTestLogger(t),
		WithClock(clock.Now), WithGrantTTL(time.Hour))

	grant, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), grant.ExpiresAt)

	clock.Advance(2 * time.Hour)
	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestGrantAccess_RedisTTLSafetyNet(t *testing.T) {
	store, mr := setupRedisStore(t)
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, store, clock)

	_, err := gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)

	ttl := mr.TTL("confix:access:session-1:M")
	assert.Equal(t, DefaultGrantTTL, ttl)
}

// ==========================
// PAYMENT SIGNALS
// ==========================

func TestConsumePaymentSignal(t *testing.T) {
	tests := []struct {
		name          string
		tier          models.Tier
		paymentStatus string
		wantConsumed  bool
	}{
		{"success grants paid tier", models.TierM, "success", true},
		{"success grants large tier", models.TierL, "success", true},
		{"success on free tier ignored", models.TierS, "success", false},
		{"failed status ignored", models.TierM, "failed", false},
		{"cancelled status ignored", models.TierL, "cancelled", false},
		{"empty status ignored", models.TierM, "", false},
		{"status is case sensitive", models.TierM, "Success", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Now()}
			gate := newTestGate(t, NewMemoryGrantStore(), clock)

			grant, consumed, err := gate.ConsumePaymentSignal(context.Background(), "session-1", tt.tier, tt.paymentStatus)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConsumed, consumed)

			if tt.wantConsumed {
				assert.Equal(t, tt.tier, grant.Tier)
				assert.Equal(t, clock.Now().Add(DefaultGrantTTL), grant.ExpiresAt)

				granted, err := gate.HasAccess(context.Background(), "session-1", tt.tier)
				require.NoError(t, err)
				assert.True(t, granted)
			} else {
				assert.Zero(t, grant)
			}
		})
	}
}

func TestConsumePaymentSignal_ReplayExtendsGrant(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, NewMemoryGrantStore(), clock)

	_, consumed, err := gate.ConsumePaymentSignal(context.Background(), "session-1", models.TierM, "success")
	require.NoError(t, err)
	require.True(t, consumed)

	clock.Advance(10 * 24 * time.Hour)
	grant, consumed, err := gate.ConsumePaymentSignal(context.Background(), "session-1", models.TierM, "success")
	require.NoError(t, err)
	require.True(t, consumed)
	assert.Equal(t, clock.Now().Add(DefaultGrantTTL), grant.ExpiresAt)
}

// ==========================
// STORE FAILURES
// ==========================

func TestGate_StoreFailuresAreWrapped(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	storeErr := fmt.Errorf("connection refused")
	gate := newTestGate(t, failingStore{err: storeErr}, clock)

	_, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrantStoreFailed))

	_, err = gate.GrantAccess(context.Background(), "session-1", models.TierM)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrantStoreFailed))

	_, _, err = gate.ConsumePaymentSignal(context.Background(), "session-1", models.TierM, "success")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrantStoreFailed))
}

func TestGate_StoreFailureDoesNotAffectFreeTier(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gate := newTestGate(t, failingStore{err: errors.New("down")}, clock)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierS)
	require.NoError(t, err)
	assert.True(t, granted)
}
