package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchDiscovery counts candidates returned by discovery, split by
	// whether the match was created by the call or already pending.
	MatchDiscovery = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_match_discovery_total",
		Help: "Potential matches returned by discovery",
	}, []string{"outcome"})

	// QuizAttempts counts recorded quiz attempts by result.
	QuizAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_quiz_attempts_total",
		Help: "Recorded quiz attempts",
	}, []string{"result"})

	// SkillVerifications counts teaching skills flipped to verified.
	SkillVerifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_skill_verifications_total",
		Help: "Teaching skills verified by a passing quiz attempt",
	})

	// ChatMessages counts chat messages by path ("stored" or "relayed") and type.
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_chat_messages_total",
		Help: "Chat messages stored or relayed",
	}, []string{"path", "message_type"})

	// WebSocketBackpressureDrops counts frames dropped because a client buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_websocket_backpressure_drops_total",
		Help: "WebSocket frames dropped due to backpressure",
	}, []string{"reason"})
)
