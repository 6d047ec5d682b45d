package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked session tokens until their natural expiry,
// giving logout real semantics for stateless JWTs. Entries are always kept
// in memory; Redis is written as well so revocations survive restarts when
// it is available.
type TokenBlacklist struct {
	rc  *redis.Client
	mu  sync.RWMutex
	mem map[string]time.Time
}

// NewTokenBlacklist creates a blacklist. client may be nil.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		rc:  client,
		mem: map[string]time.Time{},
	}
}

// Revoke stores the token until expiresAt.
func (b *TokenBlacklist) Revoke(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	b.mu.Lock()
	b.mem[token] = expiresAt
	b.pruneLocked()
	b.mu.Unlock()

	if b.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = b.rc.Set(ctx, "session:blacklist:"+token, "1", ttl).Err()
	}
}

// Contains reports whether the token was revoked before its expiry.
func (b *TokenBlacklist) Contains(token string) bool {
	b.mu.RLock()
	expiresAt, ok := b.mem[token]
	b.mu.RUnlock()
	if ok && time.Now().Before(expiresAt) {
		return true
	}

	if b.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := b.rc.Exists(ctx, "session:blacklist:"+token).Result(); err == nil {
			return n > 0
		}
	}
	return false
}

func (b *TokenBlacklist) pruneLocked() {
	now := time.Now()
	for token, expiresAt := range b.mem {
		if now.After(expiresAt) {
			delete(b.mem, token)
		}
	}
}
