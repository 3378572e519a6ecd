package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ctchen222/Solo-Tic-Tac-Toe/internal/db"
	"ctchen222/Solo-Tic-Tac-Toe/internal/events"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisPublisher_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, redisContainer)
	require.NoError(t, err)

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := db.NewRedisClient(ctx, connStr)
	require.NoError(t, err)

	publisher := events.NewRedisPublisher(rdb)
	t.Cleanup(func() { _ = publisher.Close() })

	pubsub := rdb.Subscribe(ctx, events.EventsChannel)
	defer pubsub.Close()
	_, err = pubsub.Receive(ctx)
	require.NoError(t, err)
	received := decodeEvents(t, pubsub.Channel())

	event, err := events.NewEvent(events.TypeGameFinished, events.GameFinishedPayload{
		SessionID: "session-1",
		Outcome:   "draw",
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, events.TypeGameFinished, got.Type)
		assert.JSONEq(t, string(event.Payload), string(got.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published event")
	}

	require.NoError(t, publisher.Close())
	assert.Error(t, publisher.Publish(ctx, event))
}

func decodeEvents(t *testing.T, msgs <-chan *redis.Message) <-chan events.Event {
	t.Helper()
	out := make(chan events.Event, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
				out <- event
				return
			}
		}
	}()
	return out
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := db.NewRedisClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}
