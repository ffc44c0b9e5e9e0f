package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"skillswap/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "payload"))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {
		t.Fatal("callback must not run without redis")
	}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestParseUserChannel(t *testing.T) {
	t.Parallel()
	id, ok := ParseUserChannel("notifications:user:42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"notifications:user:", "notifications:user:abc", "notifications:user:0", "chat:conv:1"} {
		_, ok := ParseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_SubscriberStopsOnCancel(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		assert.Equal(t, "notifications:user:9", channel)
		atomic.AddInt32(&received, 1)
	}))

	require.NoError(t, n.PublishUser(context.Background(), 9, "before-cancel"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) == 1
	}, testEventuallyTimeout, testPollInterval)

	cancel()
	time.Sleep(20 * time.Millisecond)

	_ = n.PublishUser(context.Background(), 9, "after-cancel")
	assert.Never(t, func() bool {
		return atomic.LoadInt32(&received) > 1
	}, 10*testPollInterval, testPollInterval)
}

func TestNotifier_SubscriberSurvivesPanickingCallback(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_, payload string) {
		atomic.AddInt32(&calls, 1)
		if payload == "boom" {
			panic("boom")
		}
	}))

	require.NoError(t, n.PublishUser(ctx, 1, "boom"))
	require.NoError(t, n.PublishUser(ctx, 1, "fine"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, testEventuallyTimeout, testPollInterval)
}

func TestDispatcher_WithoutRedisDeliversThroughHub(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(2, nil)
	require.NoError(t, err)

	d := NewDispatcher(hub, nil)
	require.NoError(t, d.SendToUser(context.Background(), 2, OutboundEvent{
		Type:    EventMessage,
		Message: &models.Message{ID: 5, MatchID: 3, SenderID: 1, Content: "hola"},
	}))

	require.Len(t, c.Send, 1)
	var got OutboundEvent
	require.NoError(t, json.Unmarshal(<-c.Send, &got))
	assert.Equal(t, EventMessage, got.Type)
	require.NotNil(t, got.Message)
	assert.Equal(t, "hola", got.Message.Content)
}

func TestDispatcher_WithRedisDeliversThroughSubscription(t *testing.T) {
	rdb := newTestRedis(t)
	hub := NewHub()
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	c, err := hub.Register(4, nil)
	require.NoError(t, err)

	d := NewDispatcher(hub, n)
	require.NoError(t, d.SendToUser(ctx, 4, OutboundEvent{Type: EventMessageSent, MatchID: 11}))

	assert.Eventually(t, func() bool { return len(c.Send) == 1 }, testEventuallyTimeout, testPollInterval)
	assert.JSONEq(t, `{"type":"message_sent","matchId":11}`, string(<-c.Send))
}
