package idempotency

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupContainerRedis(t *testing.T) *StateTracker {
	t.Helper()

	if testing.Short() || os.Getenv("TESTCONTAINERS_DISABLED") != "" {
		t.Skip("redis container tests disabled")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, nat.Port("6379/tcp"))
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	return New(client)
}

func TestStateTracker_Exec_ConcurrentCallers(t *testing.T) {
	tracker := setupContainerRedis(t)
	ctx := context.Background()

	var (
		runs       atomic.Int32
		inProgress atomic.Int32
		wg         sync.WaitGroup
	)
	release := make(chan struct{})

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := tracker.Exec(ctx, "subscription:same-email", func(context.Context) error {
				runs.Add(1)
				<-release
				return nil
			}, WithLockDuration(time.Minute))
			if errors.Is(err, ErrAlreadyInProgress) {
				inProgress.Add(1)
			}
		}()
	}

	require.Eventually(t, func() bool { return inProgress.Load() == 7 }, 10*time.Second, 10*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())

	err := tracker.Exec(ctx, "subscription:same-email", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}
