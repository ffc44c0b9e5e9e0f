package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLiveServer serves the full app on a loopback port and returns its address.
func startLiveServer(t *testing.T, s *Server) string {
	t.Helper()
	app := s.NewApp()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return ln.Addr().String()
}

func dialChat(t *testing.T, addr, token string) *websocket.Conn {
	t.Helper()
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) notifications.OutboundEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev notifications.OutboundEvent
	require.NoError(t, json.Unmarshal(raw, &ev), string(raw))
	return ev
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ev))
}

func runChatRelay(t *testing.T, rdb *redis.Client) {
	fx, alice, bob, carol := swapPair(t)
	m := fx.Match(alice, bob, models.MatchStatusAccepted)
	s := NewServerWithDeps(testConfig(t), fx.Repos, nil, rdb)
	if s.notifier != nil {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		require.NoError(t, s.hub.StartWiring(ctx, s.notifier))
	}
	addr := startLiveServer(t, s)

	aliceConn := dialChat(t, addr, tokenFor(t, s, alice))
	bobConn := dialChat(t, addr, tokenFor(t, s, bob))
	carolConn := dialChat(t, addr, tokenFor(t, s, carol))
	require.Eventually(t, func() bool {
		return s.hub.IsOnline(alice.ID) && s.hub.IsOnline(bob.ID) && s.hub.IsOnline(carol.ID)
	}, 3*time.Second, 20*time.Millisecond)

	t.Run("ping answers pong", func(t *testing.T) {
		sendEvent(t, aliceConn, map[string]any{"type": "ping"})
		assert.Equal(t, notifications.EventPong, readEvent(t, aliceConn).Type)
	})

	t.Run("message reaches the counterpart only", func(t *testing.T) {
		sendEvent(t, aliceConn, map[string]any{"type": "message", "matchId": m.ID, "content": "hi bob"})

		ack := readEvent(t, aliceConn)
		assert.Equal(t, notifications.EventMessageSent, ack.Type)
		assert.Equal(t, m.ID, ack.MatchID)

		got := readEvent(t, bobConn)
		assert.Equal(t, notifications.EventMessage, got.Type)
		require.NotNil(t, got.Message)
		assert.Equal(t, "hi bob", got.Message.Content)
		assert.Equal(t, alice.ID, got.Message.SenderID)
		assert.False(t, got.Message.CreatedAt.IsZero())
	})

	t.Run("stored message is relayed by id", func(t *testing.T) {
		status, body := doRequest(t, s.NewApp(), http.MethodPost, fmt.Sprintf("/api/matches/%d/messages", m.ID),
			tokenFor(t, s, bob), map[string]string{"content": "saved reply"})
		require.Equal(t, http.StatusCreated, status, string(body))
		stored := decode[models.Message](t, body)

		sendEvent(t, bobConn, map[string]any{"type": "message", "matchId": m.ID, "id": stored.ID, "content": "saved reply"})
		assert.Equal(t, notifications.EventMessageSent, readEvent(t, bobConn).Type)

		got := readEvent(t, aliceConn)
		require.NotNil(t, got.Message)
		assert.Equal(t, stored.ID, got.Message.ID)
	})

	t.Run("outsider gets an error and stays connected", func(t *testing.T) {
		sendEvent(t, carolConn, map[string]any{"type": "message", "matchId": m.ID, "content": "let me in"})
		ev := readEvent(t, carolConn)
		assert.Equal(t, notifications.EventError, ev.Type)
		assert.Equal(t, "You are not part of this match", ev.Error)

		sendEvent(t, carolConn, map[string]any{"type": "ping"})
		assert.Equal(t, notifications.EventPong, readEvent(t, carolConn).Type)
	})

	t.Run("malformed frame", func(t *testing.T) {
		require.NoError(t, aliceConn.WriteMessage(websocket.TextMessage, []byte("not json")))
		ev := readEvent(t, aliceConn)
		assert.Equal(t, notifications.EventError, ev.Type)
		assert.Equal(t, "invalid message format", ev.Error)
	})

	t.Run("unknown event type", func(t *testing.T) {
		sendEvent(t, aliceConn, map[string]any{"type": "dance"})
		ev := readEvent(t, aliceConn)
		assert.Equal(t, notifications.EventError, ev.Type)
		assert.Contains(t, ev.Error, "dance")
	})
}

func TestChatWebSocket_InProcess(t *testing.T) {
	runChatRelay(t, nil)
}

func TestChatWebSocket_ThroughRedis(t *testing.T) {
	_, rdb := newTestRedis(t)
	runChatRelay(t, rdb)
}

func TestChatWebSocket_RejectsMissingToken(t *testing.T) {
	fx, _, _, _ := swapPair(t)
	s := NewServerWithDeps(testConfig(t), fx.Repos, nil, nil)
	addr := startLiveServer(t, s)

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMatchStatusEvent(t *testing.T) {
	fx, alice, bob, _ := swapPair(t)
	m := fx.Match(alice, bob, models.MatchStatusPending)
	s := NewServerWithDeps(testConfig(t), fx.Repos, nil, nil)
	addr := startLiveServer(t, s)

	aliceConn := dialChat(t, addr, tokenFor(t, s, alice))
	require.Eventually(t, func() bool { return s.hub.IsOnline(alice.ID) }, 3*time.Second, 20*time.Millisecond)

	status, body := doRequest(t, s.NewApp(), http.MethodPut, fmt.Sprintf("/api/matches/%d/status", m.ID),
		tokenFor(t, s, bob), map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, status, string(body))

	ev := readEvent(t, aliceConn)
	assert.Equal(t, notifications.EventMatchStatus, ev.Type)
	require.NotNil(t, ev.Match)
	assert.Equal(t, models.MatchStatusAccepted, ev.Match.Status)
}
