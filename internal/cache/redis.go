package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Read-through cache in front of Postgres. Every function tolerates a nil
// client so the API keeps working when Redis is down or not configured.
var client *redis.Client

const (
	DefaultTTL = 5 * time.Minute
	AuthTTL    = 15 * time.Minute
)

func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Redis unavailable at %s, running without cache: %v", addr, err)
		client = nil
		return
	}
	log.Printf("[Cache] Connected to Redis at %s", addr)
}

func GetClient() *redis.Client {
	return client
}

func IsHealthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}

// GetCached unmarshals the value at key into dest. Returns false on miss
// or when the cache is unavailable.
func GetCached(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		client.Del(ctx, key)
		return false
	}
	return true
}

func SetCached(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Cache] Set failed for %s: %v", key, err)
	}
}

// InvalidatePattern deletes all keys matching the glob pattern using SCAN
// so the traversal never blocks Redis.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] Invalidate scan failed for %s: %v", pattern, err)
	}
}

// Entity invalidators. Ledger mutations touch entries, the owning person
// and the dashboard summary, so they are always flushed together.

func InvalidateEntries(ctx context.Context, userID int) {
	InvalidatePattern(ctx, Key("entries:%d:*", userID))
	InvalidatePattern(ctx, Key("summary:%d", userID))
}

func InvalidatePerson(ctx context.Context, userID, personID int) {
	InvalidatePattern(ctx, Key("person:%d:%d", userID, personID))
	InvalidatePattern(ctx, Key("persons:%d", userID))
}

func InvalidateLedger(ctx context.Context, userID, personID int) {
	InvalidateEntries(ctx, userID)
	InvalidatePerson(ctx, userID, personID)
}

// Key builds a namespaced cache key.
func Key(format string, args ...interface{}) string {
	return "agrobook:" + fmt.Sprintf(format, args...)
}
