// infrastructure/redis/healthcheck.go
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
)

// HealthChecker monitors Redis connection health. The token store falls
// back to its local cache while Redis is unhealthy.
type HealthChecker struct {
	client         redis.UniversalClient
	circuitBreaker *gobreaker.CircuitBreaker
	status         bool
	mu             sync.RWMutex
	checkInterval  time.Duration
}

// NewHealthChecker creates a new Redis health checker and starts its
// periodic checks
func NewHealthChecker(client redis.UniversalClient, checkInterval time.Duration) *HealthChecker {
	settings := gobreaker.Settings{
		Name:    "redis-circuit-breaker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	checker := &HealthChecker{
		client:         client,
		circuitBreaker: gobreaker.NewCircuitBreaker(settings),
		checkInterval:  checkInterval,
	}

	go checker.startPeriodicChecks()

	return checker
}

// IsHealthy returns the current Redis connection health status
func (h *HealthChecker) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Check performs one health check and records the result
func (h *HealthChecker) Check(ctx context.Context) bool {
	result, err := h.circuitBreaker.Execute(func() (interface{}, error) {
		return h.client.Ping(ctx).Result()
	})

	isHealthy := err == nil && result.(string) == "PONG"

	h.mu.Lock()
	h.status = isHealthy
	h.mu.Unlock()

	return isHealthy
}

// startPeriodicChecks begins regular health checking
func (h *HealthChecker) startPeriodicChecks() {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		h.Check(ctx)
		cancel()
	}
}
