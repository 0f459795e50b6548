package server

import (
	"context"
	"sync"

	"spot-the-bot/internal/game"
)

// RoomStore persists room documents. Find returns game.ErrRoomNotFound for
// unknown codes and Create returns game.ErrRoomCodeTaken on collision.
type RoomStore interface {
	Create(ctx context.Context, room *game.Room) error
	Find(ctx context.Context, code string) (*game.Room, error)
	Save(ctx context.Context, room *game.Room) error
	Delete(ctx context.Context, code string) error
}

// EventRecorder is implemented by stores that keep an event log.
type EventRecorder interface {
	RecordEvent(ctx context.Context, code string, round int, eventType string, payload EventPayload) error
}

type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*game.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*game.Room),
	}
}

func (s *MemoryStore) Create(_ context.Context, room *game.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.Code]; exists {
		return game.ErrRoomCodeTaken
	}
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *MemoryStore) Find(_ context.Context, code string) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, room *game.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
