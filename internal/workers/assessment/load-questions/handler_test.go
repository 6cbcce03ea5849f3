// internal/workers/assessment/load-questions/handler_test.go
package loadquestions

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"confix-workers/internal/common/errors"
	"confix-workers/internal/common/logger"
	"confix-workers/internal/models"
	"confix-workers/internal/questions"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fixtures
// ==========================

const testRegistry = `{
	"version": "1.0.0",
	"lastUpdated": "2026-08-14T09:30:00Z",
	"sets": [
		{"tier": "S", "displayName": "Quick Check", "file": "questions-s.json", "paid": false},
		{"tier": "M", "displayName": "Standard Assessment", "file": "questions-m.json", "paid": true},
		{"tier": "L", "displayName": "Deep Dive Assessment", "file": "questions-missing.json", "paid": true}
	]
}`

const testQuestionsS = `[
	{"id": "dq_completeness", "text": "How complete is your CI inventory?", "options": ["Not present - no inventory", "Optimized - continuously reconciled"]},
	{"id": "pm_change", "text": "How are changes recorded?", "options": ["Not present - not recorded", "Defined - standard change process"]}
]`

// Missing the required options field on the second entry.
const testQuestionsM = `[
	{"id": "dq_completeness", "text": "How complete is your CI inventory?", "options": ["Not present - no inventory", "Optimized - continuously reconciled"]},
	{"id": "pm_change", "text": "How are changes recorded?"}
]`

func writeFixtures(t *testing.T) (registryPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	registryPath = filepath.Join(dir, "question-registry.json")

	require.NoError(t, os.WriteFile(registryPath, []byte(testRegistry), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions-s.json"), []byte(testQuestionsS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions-m.json"), []byte(testQuestionsM), 0o644))
	return registryPath, dir
}

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
		Timeout: 15 * time.Second,
	}
}

func newTestHandler(t *testing.T, redisClient *redis.Client) *Handler {
	t.Helper()
	registryPath, dir := writeFixtures(t)
	log := logger.NewTestLogger(t)
	source := questions.NewSource(registryPath, dir, 5*time.Minute, redisClient, log)
	return NewHandler(createTestConfig(), source, log)
}

func errorCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok, "expected a StandardError, got %T", err)
	return stdErr.Code
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_LoadsQuestionSet(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{Plan: "S"})

	require.NoError(t, err)
	assert.Equal(t, "S", output.Plan)
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Questions, 2)
	assert.Equal(t, "dq_completeness", output.Questions[0].ID)
	assert.Len(t, output.Questions[0].Options, 2)
}

func TestExecute_UnknownPlanFallsBackToFreeSet(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{Plan: "enterprise"})

	require.NoError(t, err)
	assert.Equal(t, "S", output.Plan)
	assert.Equal(t, 2, output.Count)
}

func TestExecute_CachesQuestionSetInRedis(t *testing.T) {
	client, mr := setupRedis(t)
	handler := newTestHandler(t, client)

	_, err := handler.Execute(context.Background(), &Input{Plan: "S"})
	require.NoError(t, err)

	cached, err := mr.Get("questions:S")
	require.NoError(t, err)

	var qs []models.Question
	require.NoError(t, json.Unmarshal([]byte(cached), &qs))
	assert.Len(t, qs, 2)
}

func TestExecute_ServesFromCache(t *testing.T) {
	client, mr := setupRedis(t)
	handler := newTestHandler(t, client)

	// Pre-seed the cache with a set that differs from the file.
	seeded, _ := json.Marshal([]models.Question{
		{ID: "dq_cached", Text: "cached question", Options: []string{"a", "b"}},
	})
	require.NoError(t, mr.Set("questions:S", string(seeded)))

	output, err := handler.Execute(context.Background(), &Input{Plan: "S"})

	require.NoError(t, err)
	require.Len(t, output.Questions, 1)
	assert.Equal(t, "dq_cached", output.Questions[0].ID)
}

func TestExecute_CorruptCacheEntryFallsThroughToFile(t *testing.T) {
	client, mr := setupRedis(t)
	handler := newTestHandler(t, client)

	require.NoError(t, mr.Set("questions:S", "{not json"))

	output, err := handler.Execute(context.Background(), &Input{Plan: "S"})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "dq_completeness", output.Questions[0].ID)
}

func TestExecute_MissingQuestionFile(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{Plan: "L"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, errors.ErrCodeQuestionsLoadFailed, errorCode(t, err))
}

func TestExecute_InvalidQuestionSet(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{Plan: "M"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, errors.ErrCodeQuestionSetInvalid, errorCode(t, err))
}

func TestExecute_TierMissingFromRegistry(t *testing.T) {
	dir := t.TempDir()
	registryPath := filepath.Join(dir, "question-registry.json")
	require.NoError(t, os.WriteFile(registryPath, []byte(`{"version": "1.0.0", "sets": []}`), 0o644))

	log := logger.NewTestLogger(t)
	source := questions.NewSource(registryPath, dir, 5*time.Minute, nil, log)
	handler := NewHandler(createTestConfig(), source, log)

	output, err := handler.Execute(context.Background(), &Input{Plan: "S"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, errors.ErrCodeQuestionsNotFound, errorCode(t, err))
}

func TestExecute_MissingRegistryFile(t *testing.T) {
	log := logger.NewTestLogger(t)
	source := questions.NewSource(filepath.Join(t.TempDir(), "nope.json"), t.TempDir(), 5*time.Minute, nil, log)
	handler := NewHandler(createTestConfig(), source, log)

	output, err := handler.Execute(context.Background(), &Input{Plan: "S"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, errors.ErrCodeQuestionsLoadFailed, errorCode(t, err))
}
