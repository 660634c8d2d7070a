// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"gamecentre/config"

	"github.com/go-redis/redis/v8"
)

// OTPCacheClient is the dedicated client for the one-time-code display mirror.
var OTPCacheClient *redis.Client

// InitOTPCache initializes the Redis client backing the OTP mirror.
func InitOTPCache() {
	OTPCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOTPDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := OTPCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (OTP Cache): %v", err)
	}
}

// GetOTPCacheClient returns the Redis client for the OTP mirror.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		InitOTPCache()
	}
	return OTPCacheClient
}
