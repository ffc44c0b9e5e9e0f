package notifications

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(10, nil)
	require.NoError(t, err)
	b, err := hub.Register(10, nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline(10))
	assert.Equal(t, 2, hub.Connections())

	hub.UnregisterClient(a)
	assert.True(t, hub.IsOnline(10))

	hub.UnregisterClient(b)
	hub.UnregisterClient(b)
	assert.False(t, hub.IsOnline(10))
	assert.Equal(t, 0, hub.Connections())
}

func TestHub_PerUserLimit(t *testing.T) {
	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.ErrorIs(t, err, ErrUserFull)

	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHub_DeliverOnlyReachesTargetUser(t *testing.T) {
	hub := NewHub()
	alice, err := hub.Register(1, nil)
	require.NoError(t, err)
	bob, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Deliver(1, []byte(`{"type":"pong"}`))
	hub.Deliver(99, []byte(`{"type":"pong"}`))

	require.Len(t, alice.Send, 1)
	assert.JSONEq(t, `{"type":"pong"}`, string(<-alice.Send))
	assert.Empty(t, bob.Send)
}

func TestClient_TrySendDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(3, nil)
	require.NoError(t, err)

	for i := 0; i < sendBufferSize; i++ {
		c.TrySend([]byte("x"))
	}
	assert.NotPanics(t, func() { c.TrySend([]byte("overflow")) })
	assert.Len(t, c.Send, sendBufferSize)
}

func TestClient_TrySendOnClosedChannelRecovers(t *testing.T) {
	c := NewClient(NewHub(), nil, 4)
	close(c.Send)
	assert.NotPanics(t, func() { c.TrySend([]byte("late")) })
}

func TestHub_ConcurrentRegister(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			c, err := hub.Register(uid, nil)
			if err == nil {
				hub.Deliver(uid, []byte("hi"))
				hub.UnregisterClient(c)
			}
		}(uint(i))
	}
	wg.Wait()
	assert.Equal(t, 0, hub.Connections())
}

func TestHub_ShutdownForgetsClients(t *testing.T) {
	hub := NewHub()
	_, err := hub.Register(5, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.False(t, hub.IsOnline(5))
	assert.Equal(t, 0, hub.Connections())
}
