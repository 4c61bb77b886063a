package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	Calendar  bool      `json:"calendar"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state. calendarCheck probes the booking backend; a nil check marks the
// calendar healthy.
func StartHealthMonitor(redisClients []*redis.Client, calendarCheck func(ctx context.Context) error) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			var redisHealth []bool
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

			for _, client := range redisClients {
				err := client.Ping(ctx).Err()
				redisHealth = append(redisHealth, err == nil)
			}

			calendarHealthy := true
			if calendarCheck != nil {
				calendarHealthy = calendarCheck(ctx) == nil
			}
			cancel()

			mu.Lock()
			currentHealth = HealthStatus{
				Redis:     redisHealth,
				Calendar:  calendarHealthy,
				CheckedAt: time.Now(),
			}
			mu.Unlock()
		}
	}()
}
