package database

import (
	"context"
	"course_platform_backend/internal/config"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// InitRedis builds the shared client. An unreachable server is logged, not
// fatal: the store layer degrades per operation and recovers once the server
// comes back.
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Redis not reachable at startup: %v", err)
	} else {
		log.Println("Redis connection established")
	}
	return rdb
}
