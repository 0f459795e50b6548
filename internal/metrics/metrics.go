package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spotbot_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Rooms
	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spotbot_rooms_active",
			Help: "Rooms held in the in-process registry",
		},
	)

	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spotbot_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	Joins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spotbot_joins_total",
			Help: "Total successful room joins",
		},
	)

	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_messages_posted_total",
			Help: "Total chat messages appended",
		},
		[]string{"author"}, // "human" or "ai"
	)

	VotesCast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spotbot_votes_cast_total",
			Help: "Total human votes cast",
		},
	)

	RoundsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spotbot_rounds_started_total",
			Help: "Total rounds started",
		},
	)

	RoundsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_rounds_finished_total",
			Help: "Total rounds tallied",
		},
		[]string{"winner"}, // "players" or "impostor"
	)

	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_rejections_total",
			Help: "Operations rejected back to the caller",
		},
		[]string{"event"},
	)

	RoomsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spotbot_rooms_recovered_total",
			Help: "Rooms forced back to the lobby after inconsistent state",
		},
	)

	// AI responder
	AIReplyLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spotbot_ai_reply_latency_seconds",
			Help:    "AI responder latency",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20},
		},
	)

	AIReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_ai_replies_total",
			Help: "AI replies by outcome",
		},
		[]string{"outcome"}, // "broadcast", "late", "dropped", "error"
	)

	// Infrastructure
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_store_errors_total",
			Help: "Room store failures",
		},
		[]string{"op"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spotbot_websocket_connections",
			Help: "Open websocket connections",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotbot_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
