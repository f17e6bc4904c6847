package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns a client for TEST_REDIS_URL with a flushed database.
//
// The test is skipped if TEST_REDIS_URL is not set. Point it at a dedicated
// database number (for example redis://localhost:6379/15): it is wiped on
// entry and on cleanup.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := requireEnv(t, "TEST_REDIS_URL")

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("testutil.NewRedis: parse url: %v", err)
	}
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.FlushDB(ctx).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedis: flush: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
