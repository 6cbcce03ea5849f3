// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"confix-workers/internal/common/camunda"
	"confix-workers/internal/common/config"
	"confix-workers/internal/common/database"
	"confix-workers/internal/common/logger"
	"confix-workers/internal/common/observability"
	"confix-workers/internal/entitlement"
	"confix-workers/internal/questions"
	"confix-workers/internal/scoring"

	// Assessment Workers (2)
	ea "confix-workers/internal/workers/assessment/evaluate-assessment"
	lq "confix-workers/internal/workers/assessment/load-questions"

	// Entitlement Workers (2)
	ca "confix-workers/internal/workers/entitlement/check-access"
	ga "confix-workers/internal/workers/entitlement/grant-access"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain Services ---
	grantStore := entitlement.NewRedisGrantStore(redis.Client)
	gate := entitlement.NewGate(grantStore, log,
		entitlement.WithGrantTTL(time.Duration(cfg.Entitlement.GrantTTLHours)*time.Hour),
		entitlement.WithKeyPrefix(cfg.Entitlement.KeyPrefix),
	)

	questionSource := questions.NewSource(
		cfg.Questions.RegistryPath,
		cfg.Questions.Dir,
		time.Duration(cfg.Questions.CacheTTL)*time.Millisecond,
		redis.Client,
		log,
	)

	scoringClient := scoring.NewClient(&scoring.ClientConfig{
		BaseURL:    cfg.Scoring.APIBaseURL,
		APIKey:     cfg.Scoring.APIKey,
		Timeout:    time.Duration(cfg.Scoring.Timeout) * time.Millisecond,
		MaxRetries: cfg.Scoring.MaxRetries,
	}, log)

	zapLog.Info("Domain services initialized")

	// --- Register Workers ---
	var workers []*camunda.Worker

	// --- 1. Entitlement Workers (2) ---
	if cfg.Workers[ca.TaskType].Enabled {
		handler := ca.NewHandler(
			&ca.Config{
				Timeout: time.Duration(cfg.Workers[ca.TaskType].Timeout) * time.Millisecond,
			},
			gate, log,
		)
		workers = append(workers, startWorker(zeebeClient, ca.TaskType, cfg.Workers[ca.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[ga.TaskType].Enabled {
		handler := ga.NewHandler(
			&ga.Config{
				Timeout: time.Duration(cfg.Workers[ga.TaskType].Timeout) * time.Millisecond,
			},
			gate, log,
		)
		workers = append(workers, startWorker(zeebeClient, ga.TaskType, cfg.Workers[ga.TaskType], handler.Handle, zapLog))
	}

	// --- 2. Assessment Workers (2) ---
	if cfg.Workers[lq.TaskType].Enabled {
		handler := lq.NewHandler(
			&lq.Config{
				Timeout: time.Duration(cfg.Workers[lq.TaskType].Timeout) * time.Millisecond,
			},
			questionSource, log,
		)
		workers = append(workers, startWorker(zeebeClient, lq.TaskType, cfg.Workers[lq.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[ea.TaskType].Enabled {
		handler := ea.NewHandler(
			&ea.Config{
				Timeout: time.Duration(cfg.Workers[ea.TaskType].Timeout) * time.Millisecond,
			},
			ea.NewService(scoringClient), log,
		)
		workers = append(workers, startWorker(zeebeClient, ea.TaskType, cfg.Workers[ea.TaskType], handler.Handle, zapLog))
	}

	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			if err := redis.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	for _, w := range workers {
		w.Close()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) *camunda.Worker {
	return camunda.NewWorker(client, taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
	}, handlerFunc, log)
}
