package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = time.Minute
	pingPeriod      = pongWait * 9 / 10
	maxInboundBytes = 8 * 1024
	sendBufferSize  = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsHub tracks open connections by id. Send never blocks: each client has a
// buffered queue drained by its own writer goroutine, and a client that
// falls behind is disconnected.
type wsHub struct {
	mu      sync.Mutex
	clients map[string]*wsClient
	log     zerolog.Logger
}

type wsClient struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	once    sync.Once

	mu   sync.Mutex
	room string
}

func newWSHub(log zerolog.Logger) *wsHub {
	return &wsHub{
		clients: make(map[string]*wsClient),
		log:     log,
	}
}

func newWSClient(conn *websocket.Conn, limiter *rate.Limiter) *wsClient {
	return &wsClient{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		limiter: limiter,
	}
}

func (h *wsHub) add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
	metrics.WebsocketConnections.Set(float64(len(h.clients)))
}

func (h *wsHub) remove(client *wsClient) {
	h.mu.Lock()
	if h.clients[client.id] == client {
		delete(h.clients, client.id)
	}
	metrics.WebsocketConnections.Set(float64(len(h.clients)))
	h.mu.Unlock()
	client.close()
}

func (h *wsHub) Send(connID, event string, payload any) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	h.mu.Unlock()
	if !ok {
		return
	}
	data, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode event failed")
		return
	}
	select {
	case <-client.done:
	case client.send <- data:
	default:
		h.log.Warn().Str("conn", connID).Str("event", event).Msg("send queue full, closing connection")
		client.close()
	}
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	for _, client := range clients {
		client.close()
	}
}

// close signals the writer to send a close frame and drop the socket. The
// writer goroutine is the only one that writes to conn.
func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *wsClient) currentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *wsClient) setRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = code
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug().Err(err).Str("remote", c.ClientIP()).Msg("ws upgrade failed")
		return
	}
	client := newWSClient(conn, s.limits.connLimiter())
	s.hub.add(client)
	go client.writePump()
	s.log.Info().Str("conn", client.id).Str("remote", c.ClientIP()).Msg("ws connected")
	s.hub.Send(client.id, eventConnected, gin.H{"connectionId": client.id})
	s.readPump(client)
}

func (s *Server) readPump(client *wsClient) {
	defer func() {
		s.hub.remove(client)
		if code := client.currentRoom(); code != "" {
			if err := s.LeaveRoom(s.ctx, client.id, code); err != nil && !errors.Is(err, game.ErrRoomNotFound) &&
				!errors.Is(err, game.ErrNotParticipant) {
				s.log.Warn().Err(err).Str("conn", client.id).Str("room", code).Msg("leave on disconnect failed")
			}
		}
		s.log.Info().Str("conn", client.id).Msg("ws disconnected")
	}()

	conn := client.conn
	conn.SetReadLimit(maxInboundBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if !client.limiter.Allow() {
			metrics.RateLimitHits.WithLabelValues("ws").Inc()
			s.hub.Send(client.id, eventError, "Slow down")
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			s.hub.Send(client.id, eventError, "Invalid message")
			continue
		}
		s.dispatch(client, env)
	}
}
