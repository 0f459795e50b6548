package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

const (
	roomCodeLength  = 4
	maxCodeAttempts = 20
)

// roomEntry serializes every mutation of one room. Lock order is
// entry.mu before registry.mu; the registry never takes an entry lock.
type roomEntry struct {
	mu         sync.Mutex
	room       *game.Room
	removed    bool
	roundTimer *time.Timer
	voteTimer  *time.Timer
}

func (e *roomEntry) stopTimers() {
	stopTimer(&e.roundTimer)
	stopTimer(&e.voteTimer)
}

type registry struct {
	mu    sync.Mutex
	rooms map[string]*roomEntry
	// removals counts deletions so a cold load can tell whether the copy it
	// read from the store may already be gone.
	removals uint64
}

func newRegistry() *registry {
	return &registry{rooms: make(map[string]*roomEntry)}
}

func (r *registry) get(code string) (*roomEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.rooms[code]
	return entry, ok
}

func (r *registry) epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removals
}

// insert adds entry unless code is already present, in which case the
// existing entry is returned.
func (r *registry) insert(code string, entry *roomEntry) (*roomEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(code, entry)
}

// insertSince is insert for a room read from the store while the registry
// was at epoch. It reports stale when a room was removed in the meantime.
func (r *registry) insertSince(code string, entry *roomEntry, epoch uint64) (actual *roomEntry, inserted, stale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[code]; ok {
		return existing, false, false
	}
	if r.removals != epoch {
		return nil, false, true
	}
	actual, inserted = r.insertLocked(code, entry)
	return actual, inserted, false
}

func (r *registry) insertLocked(code string, entry *roomEntry) (*roomEntry, bool) {
	if existing, ok := r.rooms[code]; ok {
		return existing, false
	}
	r.rooms[code] = entry
	metrics.RoomsActive.Set(float64(len(r.rooms)))
	return entry, true
}

func (r *registry) remove(code string, entry *roomEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[code] == entry {
		delete(r.rooms, code)
		r.removals++
	}
	metrics.RoomsActive.Set(float64(len(r.rooms)))
}

func (r *registry) all() map[string]*roomEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*roomEntry, len(r.rooms))
	for code, entry := range r.rooms {
		out[code] = entry
	}
	return out
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// roomTx is the view a mutation gets of one locked room.
type roomTx struct {
	ctx       context.Context
	entry     *roomEntry
	Room      *game.Room
	now       time.Time
	unchanged bool
	deleted   bool
	recovered bool
	events    []loggedEvent
}

type loggedEvent struct {
	eventType string
	payload   EventPayload
}

// Unchanged skips the store write for this transaction.
func (tx *roomTx) Unchanged() {
	tx.unchanged = true
}

// Delete removes the room from the registry and the store on commit.
func (tx *roomTx) Delete() {
	tx.deleted = true
}

func (tx *roomTx) Log(eventType string, payload EventPayload) {
	tx.events = append(tx.events, loggedEvent{eventType: eventType, payload: payload})
}

// CreateRoom allocates a fresh code, persists the room and registers it.
// Zero settings fall back to the configured defaults.
func (s *Server) CreateRoom(ctx context.Context, maxParticipants, roundSeconds int) (*game.Room, error) {
	if maxParticipants == 0 {
		maxParticipants = s.cfg.DefaultMaxParticipants
	}
	if roundSeconds == 0 {
		roundSeconds = s.cfg.DefaultRoundSeconds
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := game.NewRoomCode(roomCodeLength)
		if _, taken := s.rooms.get(code); taken {
			continue
		}
		room := game.NewRoom(code, maxParticipants, roundSeconds, s.now())
		if err := s.store.Create(ctx, room); err != nil {
			if errors.Is(err, game.ErrRoomCodeTaken) {
				continue
			}
			metrics.StoreErrors.WithLabelValues("create").Inc()
			return nil, err
		}
		if _, inserted := s.rooms.insert(code, &roomEntry{room: room}); !inserted {
			_ = s.store.Delete(ctx, code)
			continue
		}
		metrics.RoomsCreated.Inc()
		s.recordEvent(ctx, room, logRoomCreated, EventPayload{
			MaxParticipants:      room.MaxParticipants,
			RoundDurationSeconds: room.RoundDurationSeconds,
		})
		s.log.Info().Str("room", code).Msg("room created")
		return room.Clone(), nil
	}
	return nil, errors.New("could not allocate a room code")
}

// Room returns a copy of the current room state.
func (s *Server) Room(ctx context.Context, code string) (*game.Room, error) {
	entry, err := s.loadEntry(ctx, code)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return nil, game.ErrRoomNotFound
	}
	return entry.room.Clone(), nil
}

// loadEntry resolves a room from the registry, falling back to the store.
// Rooms loaded from the store get their timers re-armed from the stored
// deadlines.
func (s *Server) loadEntry(ctx context.Context, code string) (*roomEntry, error) {
	code = game.NormalizeCode(code)
	if code == "" {
		return nil, game.ErrRoomNotFound
	}
	for {
		if entry, ok := s.rooms.get(code); ok {
			return entry, nil
		}
		epoch := s.rooms.epoch()
		room, err := s.store.Find(ctx, code)
		if err != nil {
			if !errors.Is(err, game.ErrRoomNotFound) {
				metrics.StoreErrors.WithLabelValues("find").Inc()
				s.log.Error().Err(err).Str("room", code).Msg("load room failed")
			}
			return nil, err
		}
		entry := &roomEntry{room: room}
		entry.mu.Lock()
		actual, inserted, stale := s.rooms.insertSince(code, entry, epoch)
		if stale {
			entry.mu.Unlock()
			s.log.Debug().Str("room", code).Msg("room removed during load, reloading")
			continue
		}
		if !inserted {
			entry.mu.Unlock()
			return actual, nil
		}
		s.rearmTimers(entry)
		entry.mu.Unlock()
		s.log.Info().Str("room", code).Str("phase", string(room.Phase)).Msg("room loaded from store")
		return entry, nil
	}
}

// updateRoom runs fn inside the room's critical section and persists the
// result. The returned room is a copy.
func (s *Server) updateRoom(ctx context.Context, code string, fn func(tx *roomTx) error) (*game.Room, error) {
	entry, err := s.loadEntry(ctx, code)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return nil, game.ErrRoomNotFound
	}
	tx := &roomTx{
		ctx:   ctx,
		entry: entry,
		Room:  entry.room,
		now:   s.now(),
	}
	s.recoverRoom(tx)
	if err := fn(tx); err != nil {
		if tx.recovered {
			tx.unchanged = false
			tx.deleted = false
			s.commit(tx)
		}
		return nil, err
	}
	s.commit(tx)
	return entry.room.Clone(), nil
}

func (s *Server) recoverRoom(tx *roomTx) {
	phase := tx.Room.Phase
	if !tx.Room.Recover(tx.now) {
		return
	}
	tx.entry.stopTimers()
	tx.recovered = true
	metrics.RoomsRecovered.Inc()
	tx.Log(logRoomRecovered, EventPayload{Phase: string(phase), Reason: "inconsistent round state"})
	s.log.Warn().Str("room", tx.Room.Code).Str("phase", string(phase)).Msg("room reset to lobby after inconsistent state")
	s.broadcastSnapshot(tx.Room, eventRoomUpdate)
}

func (s *Server) commit(tx *roomTx) {
	room := tx.Room
	switch {
	case tx.deleted:
		s.removeEntryLocked(tx.ctx, room.Code, tx.entry)
	case !tx.unchanged:
		if err := s.store.Save(tx.ctx, room); err != nil {
			metrics.StoreErrors.WithLabelValues("save").Inc()
			s.log.Error().Err(err).Str("room", room.Code).Msg("persist room failed")
		}
	}
	for _, event := range tx.events {
		s.recordEvent(tx.ctx, room, event.eventType, event.payload)
	}
}

// removeEntryLocked deletes a room. The caller holds entry.mu.
func (s *Server) removeEntryLocked(ctx context.Context, code string, entry *roomEntry) {
	entry.removed = true
	entry.stopTimers()
	if err := s.store.Delete(ctx, code); err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		s.log.Error().Err(err).Str("room", code).Msg("delete room failed")
	}
	s.rooms.remove(code, entry)
	s.log.Info().Str("room", code).Msg("room deleted")
}

// SweepIdle deletes rooms that nobody joined within the empty-room TTL.
func (s *Server) SweepIdle(now time.Time) int {
	ttl := s.cfg.EmptyRoomTTL()
	swept := 0
	for code, entry := range s.rooms.all() {
		entry.mu.Lock()
		if !entry.removed && entry.room.Empty() && now.Sub(entry.room.CreatedAt) >= ttl {
			s.removeEntryLocked(s.ctx, code, entry)
			swept++
		}
		entry.mu.Unlock()
	}
	return swept
}
