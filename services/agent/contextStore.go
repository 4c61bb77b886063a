// File: services/agent/contextStore.go
package agent

import (
	"context"
	"encoding/json"
	"time"

	"screenqa/models"
	"screenqa/utils"

	"github.com/go-redis/redis/v8"
)

// RedisContextStore keeps per-session conversational state (the id->slot map
// from the last listing) in Redis with a TTL, so a listed slot can be booked
// by short code for a bounded time.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.AgentContext, error) {
	key := utils.AgentCtxPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.AgentContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var agentCtx models.AgentContext
	if err := json.Unmarshal([]byte(data), &agentCtx); err != nil {
		return nil, err
	}
	return &agentCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, agentCtx *models.AgentContext) error {
	key := utils.AgentCtxPrefix + sessionID
	b, err := json.Marshal(agentCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	key := utils.AgentCtxPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
