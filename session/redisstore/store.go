// Package redisstore provides a redis-backed session store for server-side
// deployments of the client (bots, schedulers) that need the session to
// survive restarts and be shared across replicas.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/colegioing/go-portal-client/session"
)

const (
	fieldAccess      = "access"
	fieldRefresh     = "refresh"
	fieldDisplayName = "display_name"
)

// Store keeps the session in a single redis hash. Both tokens are written in
// one HSET, so a concurrent reader never observes a mixed pair.
type Store struct {
	client *redis.Client
	key    string
}

var _ session.Store = (*Store)(nil)

// New creates a store using the given redis client. key names the hash that
// holds the session, e.g. "portal:session:bot-1".
func New(client *redis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Get(ctx context.Context) (session.TokenPair, bool, error) {
	values, err := s.client.HMGet(ctx, s.key, fieldAccess, fieldRefresh).Result()
	if err != nil {
		return session.TokenPair{}, false, fmt.Errorf("redisstore Get: %w", err)
	}

	access, _ := values[0].(string)
	refresh, _ := values[1].(string)
	if access == "" && refresh == "" {
		return session.TokenPair{}, false, nil
	}
	return session.TokenPair{Access: access, Refresh: refresh}, true, nil
}

func (s *Store) Set(ctx context.Context, pair session.TokenPair) error {
	err := s.client.HSet(ctx, s.key, fieldAccess, pair.Access, fieldRefresh, pair.Refresh).Err()
	if err != nil {
		return fmt.Errorf("redisstore Set: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redisstore Clear: %w", err)
	}
	return nil
}

func (s *Store) DisplayName(ctx context.Context) (string, error) {
	name, err := s.client.HGet(ctx, s.key, fieldDisplayName).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redisstore DisplayName: %w", err)
	}
	return name, nil
}

func (s *Store) SetDisplayName(ctx context.Context, name string) error {
	if name == "" {
		if err := s.client.HDel(ctx, s.key, fieldDisplayName).Err(); err != nil {
			return fmt.Errorf("redisstore SetDisplayName: %w", err)
		}
		return nil
	}
	if err := s.client.HSet(ctx, s.key, fieldDisplayName, name).Err(); err != nil {
		return fmt.Errorf("redisstore SetDisplayName: %w", err)
	}
	return nil
}
