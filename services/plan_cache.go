package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"settleup-backend/settlement"
	"time"

	"github.com/redis/go-redis/v9"
)

const planCachePrefix = "settleup:plan:"

// PlanCache memoises Calculate results keyed by the expense content, so an
// edited expense never hits a stale plan. A nil client disables caching.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlanCache(client *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{client: client, ttl: ttl}
}

func PlanCacheKey(expense settlement.Expense, strategy settlement.Strategy) (string, error) {
	body, err := json.Marshal(expense)
	if err != nil {
		return "", fmt.Errorf("marshal expense: %w", err)
	}
	sum := sha256.Sum256(body)
	return planCachePrefix + string(strategy) + ":" + hex.EncodeToString(sum[:]), nil
}

// Calculate returns the cached result when present, otherwise computes and
// stores it. The bool reports a cache hit.
func (pc *PlanCache) Calculate(ctx context.Context, expense settlement.Expense, strategy settlement.Strategy) (*settlement.Result, bool, error) {
	if pc == nil || pc.client == nil {
		result, err := settlement.Calculate(&expense, strategy)
		return result, false, err
	}

	key, err := PlanCacheKey(expense, strategy)
	if err != nil {
		return nil, false, err
	}

	cached, err := pc.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var result settlement.Result
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, true, nil
		}
		log.Printf("⚠️  Discarding unreadable cached plan %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("⚠️  Plan cache read failed: %v", err)
	}

	result, err := settlement.Calculate(&expense, strategy)
	if err != nil {
		return nil, false, err
	}

	if body, err := json.Marshal(result); err == nil {
		if err := pc.client.Set(ctx, key, body, pc.ttl).Err(); err != nil {
			log.Printf("⚠️  Plan cache write failed: %v", err)
		}
	}
	return result, false, nil
}

var planCache *PlanCache

func InitPlanCache(client *redis.Client, ttl time.Duration) {
	planCache = NewPlanCache(client, ttl)
}

// GetPlanCache may return nil, which computes without caching.
func GetPlanCache() *PlanCache {
	return planCache
}
