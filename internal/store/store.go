package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("document not found or expired")

// OutputStore keeps generated documents for a limited time so they can be downloaded.
type OutputStore interface {
	Save(ctx context.Context, id, document string) error
	Load(ctx context.Context, id string) (string, error)
}

type redisOutputStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisOutputStore(redisClient *redis.Client, ttl time.Duration) OutputStore {
	return &redisOutputStore{
		redisClient: redisClient,
		keyPrefix:   "pickit:output:",
		ttl:         ttl,
	}
}

func (s *redisOutputStore) Save(ctx context.Context, id, document string) error {
	err := s.redisClient.Set(ctx, s.keyPrefix+id, document, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", id, err)
	}
	return nil
}

func (s *redisOutputStore) Load(ctx context.Context, id string) (string, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return val, nil
}

type memoryEntry struct {
	document  string
	expiresAt time.Time
}

type memoryOutputStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryOutputStore keeps documents in process. Expired entries are
// dropped lazily on every Save.
func NewMemoryOutputStore(ttl time.Duration) OutputStore {
	return &memoryOutputStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *memoryOutputStore) Save(_ context.Context, id, document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
		}
	}

	s.entries[id] = memoryEntry{document: document, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *memoryOutputStore) Load(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e, s.now()) {
		return "", ErrNotFound
	}
	return e.document, nil
}

// A non-positive ttl never expires.
func (s *memoryOutputStore) expired(e memoryEntry, now time.Time) bool {
	return s.ttl > 0 && !now.Before(e.expiresAt)
}
