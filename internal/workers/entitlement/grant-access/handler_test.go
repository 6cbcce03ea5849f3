// internal/workers/entitlement/grant-access/handler_test.go
package grantaccess

import (
	"context"
	"testing"
	"time"

	"confix-workers/internal/common/logger"
	"confix-workers/internal/entitlement"
	"confix-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func createTestConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

func newTestHandler(t *testing.T) (*Handler, *entitlement.Gate) {
	t.Helper()
	client, _ := setupRedis(t)
	log := logger.NewTestLogger(t)
	gate := entitlement.NewGate(entitlement.NewRedisGrantStore(client), log)
	return NewHandler(createTestConfig(), gate, log), gate
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_SuccessfulPaymentGrantsAccess(t *testing.T) {
	handler, gate := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:     "session-1",
		Plan:          "M",
		PaymentStatus: "success",
	})

	require.NoError(t, err)
	assert.Equal(t, "M", output.Plan)
	assert.True(t, output.Granted)
	assert.True(t, output.ClearPaymentParam)

	expires, err := time.Parse(time.RFC3339, output.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(entitlement.DefaultGrantTTL), expires, time.Minute)

	granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestExecute_NonSuccessStatusDoesNotGrant(t *testing.T) {
	tests := []struct {
		name           string
		paymentStatus  string
		wantClearParam bool
	}{
		{"failed payment", "failed", true},
		{"cancelled payment", "cancelled", true},
		{"pending payment", "pending", true},
		{"uppercase success not accepted", "Success", true},
		{"no payment signal", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, gate := newTestHandler(t)

			output, err := handler.Execute(context.Background(), &Input{
				SessionID:     "session-1",
				Plan:          "M",
				PaymentStatus: tt.paymentStatus,
			})

			require.NoError(t, err)
			assert.False(t, output.Granted)
			assert.Empty(t, output.ExpiresAt)
			assert.Equal(t, tt.wantClearParam, output.ClearPaymentParam)

			granted, err := gate.HasAccess(context.Background(), "session-1", models.TierM)
			require.NoError(t, err)
			assert.False(t, granted)
		})
	}
}

func TestExecute_SuccessOnFreeTierIgnored(t *testing.T) {
	handler, _ := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:     "session-1",
		Plan:          "S",
		PaymentStatus: "success",
	})

	require.NoError(t, err)
	assert.Equal(t, "S", output.Plan)
	assert.False(t, output.Granted)
	assert.Empty(t, output.ExpiresAt)
	// The marker is still stripped so the return URL stays clean.
	assert.True(t, output.ClearPaymentParam)
}

func TestExecute_ReplayedSuccessReextendsGrant(t *testing.T) {
	handler, _ := newTestHandler(t)

	first, err := handler.Execute(context.Background(), &Input{
		SessionID:     "session-1",
		Plan:          "L",
		PaymentStatus: "success",
	})
	require.NoError(t, err)
	require.True(t, first.Granted)

	second, err := handler.Execute(context.Background(), &Input{
		SessionID:     "session-1",
		Plan:          "L",
		PaymentStatus: "success",
	})
	require.NoError(t, err)
	assert.True(t, second.Granted)
	assert.NotEmpty(t, second.ExpiresAt)
}

func TestExecute_StoreFailureReturnsError(t *testing.T) {
	client, mr := setupRedis(t)
	log := logger.NewTestLogger(t)
	gate := entitlement.NewGate(entitlement.NewRedisGrantStore(client), log)
	handler := NewHandler(createTestConfig(), gate, log)

	mr.Close()

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:     "session-1",
		Plan:          "M",
		PaymentStatus: "success",
	})

	require.Error(t, err)
	assert.Nil(t, output)
}
