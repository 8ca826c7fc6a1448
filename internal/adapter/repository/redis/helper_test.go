package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestStore spins up an in-memory redis and returns a store bound to it
// plus a raw client for asserting on stored values. Both are cleaned up
// with the test.
func newTestStore(t *testing.T) (*IdempotencyStore, *redislib.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyStore(client), client
}
