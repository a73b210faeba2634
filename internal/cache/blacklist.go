package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores invalidated access tokens until they expire.
// Backed by Redis when an address is configured; otherwise an in-process map
// that does not survive restarts (acceptable for 15-minute access tokens).
type TokenBlacklist struct {
	client *redis.Client

	mu     sync.Mutex
	memory map[string]time.Time
	done   chan struct{}
}

const blacklistPrefix = "blacklist:"

func NewTokenBlacklist(redisAddress string) *TokenBlacklist {
	bl := &TokenBlacklist{
		memory: make(map[string]time.Time),
		done:   make(chan struct{}),
	}

	if redisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddress})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] redis unreachable (%v), token blacklist falling back to memory", err)
		} else {
			bl.client = client
		}
	}

	if bl.client == nil {
		// Expired entries only matter for memory growth; sweep hourly.
		go bl.cleanupLoop()
	}
	return bl
}

// Add marks a token as invalid until expiresAt.
func (bl *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if bl.client != nil {
		if err := bl.client.Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
		// fall through to memory on Redis failure
	}
	bl.mu.Lock()
	bl.memory[token] = expiresAt
	bl.mu.Unlock()
}

func (bl *TokenBlacklist) Contains(ctx context.Context, token string) bool {
	if bl.client != nil {
		n, err := bl.client.Exists(ctx, blacklistPrefix+token).Result()
		if err == nil {
			return n > 0
		}
	}
	bl.mu.Lock()
	defer bl.mu.Unlock()
	expiresAt, ok := bl.memory[token]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(bl.memory, token)
		return false
	}
	return true
}

// Close stops the memory-mode sweeper goroutine. Safe to call once,
// including when Redis is the backend.
func (bl *TokenBlacklist) Close() {
	close(bl.done)
}

func (bl *TokenBlacklist) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-bl.done:
			return
		case <-ticker.C:
			now := time.Now()
			bl.mu.Lock()
			for token, expiresAt := range bl.memory {
				if expiresAt.Before(now) {
					delete(bl.memory, token)
				}
			}
			bl.mu.Unlock()
		}
	}
}
