// internal/questions/source.go
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"confix-workers/internal/common/errors"
	"confix-workers/internal/common/logger"
	"confix-workers/internal/common/metrics"
	"confix-workers/internal/models"
	"confix-workers/pkg/registry"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "questions"

// Source loads tier question sets from the registry-backed file layout and
// caches the parsed sets in Redis.
type Source struct {
	registryPath string
	dir          string
	cacheTTL     time.Duration
	redis        *redis.Client
	logger       logger.Logger
}

func NewSource(registryPath, dir string, cacheTTL time.Duration, redisClient *redis.Client, log logger.Logger) *Source {
	return &Source{
		registryPath: registryPath,
		dir:          dir,
		cacheTTL:     cacheTTL,
		redis:        redisClient,
		logger:       log,
	}
}

// Load returns the question set for a tier. Cache hits are served from
// Redis; misses go through the registry, the question file, and schema
// validation before the result is cached.
func (s *Source) Load(ctx context.Context, tier models.Tier) ([]models.Question, error) {
	cacheKey := fmt.Sprintf("%s:%s", cacheKeyPrefix, tier)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var qs []models.Question
			if jsonErr := json.Unmarshal([]byte(cached), &qs); jsonErr == nil {
				metrics.QuestionSetLoads.WithLabelValues(tier.String(), "cache").Inc()
				return qs, nil
			}
			// Corrupt cache entry, fall through to the file
			s.redis.Del(ctx, cacheKey)
		}
	}

	qs, err := s.loadFromFile(tier)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, jsonErr := json.Marshal(qs); jsonErr == nil {
			if cacheErr := s.redis.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); cacheErr != nil {
				s.logger.Warn("Failed to cache question set", map[string]interface{}{
					"tier":  tier.String(),
					"error": cacheErr.Error(),
				})
			}
		}
	}

	metrics.QuestionSetLoads.WithLabelValues(tier.String(), "file").Inc()
	return qs, nil
}

func (s *Source) loadFromFile(tier models.Tier) ([]models.Question, error) {
	reg, err := registry.LoadRegistry(s.registryPath)
	if err != nil {
		return nil, errors.NewQuestionsLoadFailedError(fmt.Errorf("registry: %w", err))
	}

	set, ok := reg.SetForTier(tier.String())
	if !ok {
		return nil, errors.NewQuestionsNotFoundError(tier.String())
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, set.File))
	if err != nil {
		return nil, errors.NewQuestionsLoadFailedError(err)
	}

	if err := ValidateQuestionSet(raw); err != nil {
		return nil, errors.NewQuestionSetInvalidError(err.Error())
	}

	var qs []models.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, errors.NewQuestionsLoadFailedError(err)
	}

	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			return nil, errors.NewQuestionSetInvalidError(fmt.Sprintf("duplicate question id: %s", q.ID))
		}
		seen[q.ID] = true
	}

	return qs, nil
}
