package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/bankledger/internal/domain"
)

// reservation placeholder stored while the first request is still running.
const processingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis. Keys
// guard transfer submissions so a retried request replays the stored
// response instead of moving money twice.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// Reserve claims key for the calling request. It returns reserved=true when
// the caller now owns the key, or the previously stored response when an
// earlier request already completed. A nil response with reserved=false
// means another request holds the key and is still in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, processingMarker, ttl).Result()
	if err != nil {
		return false, nil, mapRedisError(err)
	}
	if set {
		return true, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Reservation expired between SetNX and Get; treat as in flight
			// and let the client retry.
			return false, nil, nil
		}

		return false, nil, mapRedisError(err)
	}

	if existing == processingMarker {
		return false, nil, nil
	}

	return false, []byte(existing), nil
}

// Save stores the final response under key, replacing the reservation.
func (s *IdempotencyStore) Save(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return mapRedisError(s.client.Set(ctx, s.prefix+key, response, ttl).Err())
}

// Release drops a reservation so a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return mapRedisError(s.client.Del(ctx, s.prefix+key).Err())
}

func mapRedisError(err error) error {
	if err == nil {
		return nil
	}

	return domain.WrapError(domain.KindUnavailable, "store unavailable", err)
}
