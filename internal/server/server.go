package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"spot-the-bot/internal/ai"
	"spot-the-bot/internal/config"
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

// Transport delivers a named event to one connection. Broadcasting to a
// room is one Send per participant so each viewer gets its own snapshot.
type Transport interface {
	Send(connID, event string, payload any)
}

type Deps struct {
	Store     RoomStore
	Catalog   game.Catalog
	Responder ai.Responder
	Persona   string
	Logger    zerolog.Logger
	// Transport overrides the websocket hub as the outbound path.
	Transport Transport
	Rand      game.Rand
	Now       func() time.Time
}

type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	store     RoomStore
	events    EventRecorder
	catalog   game.Catalog
	responder ai.Responder
	persona   string
	hub       *wsHub
	transport Transport
	rooms     *registry
	limits    *rateLimits
	rng       game.Rand
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	// aiMu orders aiWG.Add against Close's Wait.
	aiMu      sync.Mutex
	aiClosed  bool
	aiWG      sync.WaitGroup
	sweepWG   sync.WaitGroup
	closeOnce sync.Once
}

func New(cfg config.Config, deps Deps) *Server {
	registerValidators()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:       cfg,
		log:       deps.Logger,
		store:     deps.Store,
		catalog:   deps.Catalog,
		responder: deps.Responder,
		persona:   deps.Persona,
		rooms:     newRegistry(),
		limits:    newRateLimits(cfg),
		rng:       game.GlobalRand,
		now:       deps.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if recorder, ok := s.store.(EventRecorder); ok {
		s.events = recorder
	}
	if s.catalog == nil {
		s.catalog = game.DefaultCatalog()
	}
	if s.responder == nil {
		s.responder = ai.NewCannedResponder(game.GlobalRand)
	}
	if s.persona == "" {
		s.persona = ai.DefaultPersona
	}
	if deps.Rand != nil {
		s.rng = &lockedRand{rng: deps.Rand}
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.hub = newWSHub(s.log.With().Str("component", "ws").Logger())
	s.transport = s.hub
	if deps.Transport != nil {
		s.transport = deps.Transport
	}
	if cfg.SweepIntervalSeconds > 0 {
		s.sweepWG.Add(1)
		go s.runSweeper(cfg.SweepInterval())
	}
	return s
}

// Close stops the sweeper and every room timer, cancels in-flight AI turns
// and waits for them to return.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.aiMu.Lock()
		s.aiClosed = true
		s.cancel()
		s.aiMu.Unlock()
		s.sweepWG.Wait()
		for _, entry := range s.rooms.all() {
			entry.mu.Lock()
			entry.stopTimers()
			entry.mu.Unlock()
		}
		s.aiWG.Wait()
		s.hub.closeAll()
	})
}

func (s *Server) runSweeper(interval time.Duration) {
	defer s.sweepWG.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if swept := s.SweepIdle(s.now()); swept > 0 {
				s.log.Info().Int("rooms", swept).Msg("idle rooms swept")
			}
		}
	}
}

func (s *Server) recordEvent(ctx context.Context, room *game.Room, eventType string, payload EventPayload) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(ctx, room.Code, room.Round, eventType, payload); err != nil {
		metrics.StoreErrors.WithLabelValues("event").Inc()
		s.log.Warn().Err(err).Str("room", room.Code).Str("event", eventType).Msg("persist event failed")
	}
}

type lockedRand struct {
	mu  sync.Mutex
	rng game.Rand
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
