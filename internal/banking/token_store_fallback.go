// banking/token_store_fallback.go
package banking

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// FallbackTokenStore wraps the Redis store with a local cache so that a
// Redis outage between token exchange and first use does not force a
// re-authorization.
type FallbackTokenStore struct {
	redisStore  *RedisTokenStore
	localCache  map[string]*OAuthToken
	cacheMutex  sync.RWMutex
	healthCheck func() bool
	log         zerolog.Logger
}

// NewFallbackTokenStore creates a token store with Redis and local fallback
func NewFallbackTokenStore(redisClient redis.UniversalClient, prefix string, healthCheck func() bool, log zerolog.Logger) *FallbackTokenStore {
	return &FallbackTokenStore{
		redisStore:  NewRedisTokenStore(redisClient, prefix),
		localCache:  make(map[string]*OAuthToken),
		healthCheck: healthCheck,
		log:         log.With().Str("component", "token_store").Logger(),
	}
}

// SaveToken stores a token in Redis and the local cache
func (s *FallbackTokenStore) SaveToken(bankName string, token *OAuthToken) error {
	s.cacheMutex.Lock()
	s.localCache[bankName] = token
	s.cacheMutex.Unlock()

	if s.healthCheck() {
		if err := s.redisStore.SaveToken(bankName, token); err != nil {
			s.log.Warn().Err(err).Str("bank", bankName).Msg("Failed to save token to Redis")
			// Continue with just the local cache.
		}
	}

	return nil
}

// GetToken retrieves a token, trying Redis first, falling back to the cache
func (s *FallbackTokenStore) GetToken(bankName string) (*OAuthToken, error) {
	if s.healthCheck() {
		token, err := s.redisStore.GetToken(bankName)
		if err == nil {
			s.cacheMutex.Lock()
			s.localCache[bankName] = token
			s.cacheMutex.Unlock()
			return token, nil
		}
		if err != ErrTokenMissing {
			s.log.Warn().Err(err).Str("bank", bankName).Msg("Failed to get token from Redis")
		}
	}

	s.cacheMutex.RLock()
	token, exists := s.localCache[bankName]
	s.cacheMutex.RUnlock()

	if exists {
		return token, nil
	}

	return nil, ErrTokenMissing
}

// DeleteToken removes a token from both stores
func (s *FallbackTokenStore) DeleteToken(bankName string) error {
	s.cacheMutex.Lock()
	delete(s.localCache, bankName)
	s.cacheMutex.Unlock()

	if s.healthCheck() {
		if err := s.redisStore.DeleteToken(bankName); err != nil {
			s.log.Warn().Err(err).Str("bank", bankName).Msg("Failed to delete token from Redis")
		}
	}

	return nil
}

// StartReplicationRoutine begins background sync of the local cache to Redis
func (s *FallbackTokenStore) StartReplicationRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.healthCheck() {
					continue
				}

				s.cacheMutex.RLock()
				tokensToReplicate := make(map[string]*OAuthToken, len(s.localCache))
				for bank, token := range s.localCache {
					tokensToReplicate[bank] = token
				}
				s.cacheMutex.RUnlock()

				for bank, token := range tokensToReplicate {
					if err := s.redisStore.SaveToken(bank, token); err != nil {
						s.log.Warn().Err(err).Str("bank", bank).Msg("Token replication failed")
					}
				}
			}
		}
	}()
}
