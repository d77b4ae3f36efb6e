package config

// Redis backs the distributed rate limiter and is reported by the readiness
// check.  It is optional: when no address is configured, or the server does
// not answer at startup, NewRedisClient returns nil and callers run without it.

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables are:
//
//	REDIS_HOST and REDIS_PORT - hostname and port of the Redis server
//	REDIS_ADDR - host:port shorthand (host/port win when both are set)
//	REDIS_PASSWORD - optional password
//	REDIS_DB - database number (default 0)
//	REDIS_TLS - enable TLS when "true" or "1"
func NewRedisClient() *redis.Client {
	addr := redisAddr()
	if addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable, continuing without it: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}

func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return os.Getenv("REDIS_ADDR")
	}
	return host + ":" + envStr("REDIS_PORT", "6379")
}
