package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/events"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	redisclient "github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/redis"
)

func newBus(t *testing.T) (*events.RedisProgressBus, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return events.NewRedisProgressBus(redisclient.NewFromClient(client)), mr
}

func TestRedisProgressBus_PublishSubscribe(t *testing.T) {
	bus, _ := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.PublishProgress(ctx, &entities.ImportProgress{RunID: "run-1", Batch: 1, Batches: 3, Imported: 7, Total: 30}))

	select {
	case got := <-updates:
		require.NotNil(t, got)
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, 7, got.Imported)
		assert.False(t, got.Done)
	case <-time.After(2 * time.Second):
		t.Fatal("no progress event received")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisProgressBus_PublishWhenRedisDown(t *testing.T) {
	bus, mr := newBus(t)
	mr.Close()

	err := bus.PublishProgress(context.Background(), &entities.ImportProgress{RunID: "run-1"})

	assert.ErrorContains(t, err, "failed to publish progress")
}

func TestRedisProgressBus_SubscribeWhenRedisDown(t *testing.T) {
	bus, mr := newBus(t)
	mr.Close()

	_, err := bus.Subscribe(context.Background())

	assert.Error(t, err)
}
