package database

import (
	"context"
	"log"
	"settleup-backend/config"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis leaves Redis nil when the server is unreachable; callers treat
// a nil client as "no cache".
func ConnectRedis() {
	if config.AppConfig.RedisURL == "" {
		log.Println("⚠️  REDIS_URL not set, running without cache")
		return
	}

	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Println("⚠️  Invalid REDIS_URL, running without cache:", err)
		return
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("⚠️  Redis not available, running without cache:", err)
		client.Close()
		return
	}

	Redis = client
	log.Println("✅ Redis connected successfully")
}
