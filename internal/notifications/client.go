package notifications

import (
	"encoding/json"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 16384
	sendBufferSize = 256
)

var dropNotice = []byte(`{"type":"messages_dropped","reason":"buffer_full"}`)

// ClientHub is implemented by hubs that own Clients.
type ClientHub interface {
	UnregisterClient(c *Client)
}

// Client is one chat socket of a user. Frames from the peer are decoded into
// InboundEvents; outbound frames are queued on Send and written by WritePump.
type Client struct {
	Hub    ClientHub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint

	// OnEvent handles every well-formed inbound event.
	OnEvent func(*Client, InboundEvent)
}

// NewClient creates a Client with an empty send buffer.
func NewClient(hub ClientHub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump decodes frames until the peer goes away, then unregisters the
// client. A frame that is not a JSON event is answered with an error event.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				middleware.Logger.Warn("chat socket read failed",
					slog.Uint64("user_id", uint64(c.UserID)), slog.String("error", err.Error()))
			}
			return
		}

		var ev InboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
			c.Reply(OutboundEvent{Type: EventError, Error: "invalid message format"})
			continue
		}
		if c.OnEvent != nil {
			c.OnEvent(c, ev)
		}
	}
}

// WritePump writes queued frames and pings the peer until Send is closed or
// a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		var (
			kind    = websocket.TextMessage
			payload []byte
		)
		select {
		case frame, ok := <-c.Send:
			if !ok {
				kind = websocket.CloseMessage
			}
			payload = frame
		case <-ticker.C:
			kind = websocket.PingMessage
		}

		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(kind, payload); err != nil || kind == websocket.CloseMessage {
			return
		}
	}
}

// Reply encodes event and queues it on this client only.
func (c *Client) Reply(event OutboundEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.Error("failed to encode chat event",
			slog.String("event", event.Type), slog.String("error", err.Error()))
		return
	}
	c.TrySend(payload)
}

// TrySend queues payload without blocking. When the buffer is full the frame
// is dropped and the client is told so it can refetch the conversation.
func (c *Client) TrySend(payload []byte) {
	defer func() {
		// Send was closed by a concurrent unregister.
		if recover() != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues("closed").Inc()
		}
	}()

	select {
	case c.Send <- payload:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues("full").Inc()
	middleware.Logger.Warn("chat socket buffer full, dropped frame",
		slog.Uint64("user_id", uint64(c.UserID)))
	select {
	case c.Send <- dropNotice:
	default:
	}
}
