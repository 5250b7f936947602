// banking/token_store.go
package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTokenStore implements TokenStore using Redis. There is one key per
// bank; saving replaces whatever record was there before.
type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenStore creates a new Redis-backed token store
func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: prefix,
	}
}

// key generates the Redis key for a bank's token record
func (s *RedisTokenStore) key(bankName string) string {
	return fmt.Sprintf("%s:token:%s", s.prefix, bankName)
}

// SaveToken upserts the token record for a bank
func (s *RedisTokenStore) SaveToken(bankName string, token *OAuthToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Keep the record around past expiry so status checks can distinguish
	// "expired" from "never connected".
	ttl := time.Until(token.ExpiresAt) + (24 * time.Hour)

	err = s.client.Set(context.Background(), s.key(bankName), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetToken retrieves the latest token record for a bank
func (s *RedisTokenStore) GetToken(bankName string) (*OAuthToken, error) {
	data, err := s.client.Get(context.Background(), s.key(bankName)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTokenMissing
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var token OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// DeleteToken removes a bank's token record
func (s *RedisTokenStore) DeleteToken(bankName string) error {
	err := s.client.Del(context.Background(), s.key(bankName)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
