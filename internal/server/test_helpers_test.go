package server

import (
	"context"
	"encoding/json"
	mathrand "math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spot-the-bot/internal/ai"
	"spot-the-bot/internal/config"
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/logger"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

type sentEvent struct {
	connID  string
	event   string
	payload any
}

// recordingTransport captures every outbound event instead of writing to
// sockets.
type recordingTransport struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (r *recordingTransport) Send(connID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEvent{connID: connID, event: event, payload: payload})
}

func (r *recordingTransport) events(connID, event string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, sent := range r.sent {
		if sent.connID == connID && sent.event == event {
			out = append(out, sent.payload)
		}
	}
	return out
}

func (r *recordingTransport) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, sent := range r.sent {
		if sent.event == event {
			n++
		}
	}
	return n
}

func (r *recordingTransport) lastSnapshot(t *testing.T, connID string) roomSnapshot {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		sent := r.sent[i]
		if sent.connID != connID {
			continue
		}
		if snap, ok := sent.payload.(roomSnapshot); ok {
			return snap
		}
	}
	t.Fatalf("no snapshot sent to %s", connID)
	return roomSnapshot{}
}

func (r *recordingTransport) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockResponder is a testify mock of ai.Responder.
type mockResponder struct {
	mock.Mock
}

func (m *mockResponder) Reply(ctx context.Context, prompt ai.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// gatedResponder blocks every reply until release is closed.
type gatedResponder struct {
	text    string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedResponder(text string) *gatedResponder {
	return &gatedResponder{
		text:    text,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedResponder) Reply(ctx context.Context, _ ai.Prompt) (string, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type fixture struct {
	srv       *Server
	transport *recordingTransport
	store     *MemoryStore
	clock     *testClock
	cfg       config.Config
}

type fixtureOption func(*config.Config, *Deps)

func withResponder(responder ai.Responder) fixtureOption {
	return func(_ *config.Config, deps *Deps) {
		deps.Responder = responder
	}
}

func withStore(store RoomStore) fixtureOption {
	return func(_ *config.Config, deps *Deps) {
		deps.Store = store
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SweepIntervalSeconds = 0
	cfg.AIReplyDelayMillis = 0
	cfg.AIReplyTimeoutSecond = 5
	cfg.CreateRoomsPerMinute = 0
	cfg.WSEventsPerSecond = 0
	cfg.PublicURL = "http://play.test"
	return cfg
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := testConfig()
	store := NewMemoryStore()
	transport := &recordingTransport{}
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	deps := Deps{
		Store:     store,
		Catalog:   game.DefaultCatalog(),
		Responder: ai.Off{},
		Logger:    logger.Nop(),
		Transport: transport,
		Rand:      mathrand.New(mathrand.NewPCG(7, 11)),
		Now:       clock.Now,
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}
	srv := New(cfg, deps)
	t.Cleanup(srv.Close)
	f := &fixture{srv: srv, transport: transport, clock: clock, cfg: cfg}
	if memory, ok := deps.Store.(*MemoryStore); ok {
		f.store = memory
	}
	return f
}

func (f *fixture) createRoom(t *testing.T, maxParticipants int) string {
	t.Helper()
	room, err := f.srv.CreateRoom(context.Background(), maxParticipants, 0)
	require.NoError(t, err)
	return room.Code
}

func (f *fixture) join(t *testing.T, code string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.srv.JoinRoom(context.Background(), id, code, "nick-"+id)
		require.NoError(t, err)
	}
}

func (f *fixture) room(t *testing.T, code string) *game.Room {
	t.Helper()
	room, err := f.srv.Room(context.Background(), code)
	require.NoError(t, err)
	return room
}

// startedRoom returns a playing room hosted by the first id.
func (f *fixture) startedRoom(t *testing.T, ids ...string) string {
	t.Helper()
	code := f.createRoom(t, game.MaxParticipants)
	f.join(t, code, ids...)
	require.NoError(t, f.srv.StartGame(context.Background(), ids[0], code))
	return code
}

// votingRoom returns a room that has just entered voting.
func (f *fixture) votingRoom(t *testing.T, ids ...string) string {
	t.Helper()
	code := f.startedRoom(t, ids...)
	f.srv.autoAdvance(code, 1, game.PhasePlaying)
	require.Equal(t, game.PhaseVoting, f.room(t, code).Phase)
	return code
}

func slotFor(t *testing.T, room *game.Room, participantID string) string {
	t.Helper()
	slot, ok := room.Labels.ByParticipant(participantID)
	require.True(t, ok, "no slot for %s", participantID)
	return slot.SlotID
}

func decodeJSON(t *testing.T, data []byte, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, dest))
}
