package knowledge

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the knowledge base in a Redis hash, one field per
// document id. Ranking happens client-side with the same token-overlap
// scoring as MemoryStore; Redis provides the shared, read-only storage for
// evaluation workers running across processes.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore over the given client. key names the
// hash holding the collection.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Populate writes a batch of documents into the collection hash.
func (s *RedisStore) Populate(ctx context.Context, docs map[string]string) error {
	if len(docs) == 0 {
		return nil
	}
	fields := make(map[string]any, len(docs))
	for id, content := range docs {
		fields[id] = content
	}
	if err := s.client.HSet(ctx, s.key, fields).Err(); err != nil {
		return fmt.Errorf("populate knowledge base %s: %w", s.key, err)
	}
	return nil
}

// Query loads the collection and returns the best-scoring document.
func (s *RedisStore) Query(ctx context.Context, query string) (string, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return "", ErrNoResults
	}

	docs, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return "", fmt.Errorf("query knowledge base %s: %w", s.key, err)
	}

	best := ""
	bestScore := 0
	for _, content := range docs {
		score := overlapScore(queryTokens, content)
		if score > bestScore {
			best = content
			bestScore = score
		}
	}
	if bestScore == 0 {
		return "", ErrNoResults
	}
	return best, nil
}
