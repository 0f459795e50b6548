package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spot-the-bot/internal/game"
)

// RedisStore keeps room documents as JSON strings with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStoreWithClient(client, ttl), nil
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func roomKey(code string) string {
	return fmt.Sprintf("room:%s", code)
}

func roomEventsKey(code string) string {
	return fmt.Sprintf("room:%s:events", code)
}

func (s *RedisStore) Create(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	created, err := s.client.SetNX(ctx, roomKey(room.Code), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return game.ErrRoomCodeTaken
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, code string) (*game.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	var room game.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", code, err)
	}
	return &room, nil
}

func (s *RedisStore) Save(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roomKey(room.Code), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, code string) error {
	return s.client.Del(ctx, roomKey(code), roomEventsKey(code)).Err()
}

type redisEvent struct {
	Type    string       `json:"type"`
	Round   int          `json:"round"`
	Payload EventPayload `json:"payload"`
	At      time.Time    `json:"at"`
}

// RecordEvent appends to a capped per-room list that expires with the room.
func (s *RedisStore) RecordEvent(ctx context.Context, code string, round int, eventType string, payload EventPayload) error {
	data, err := json.Marshal(redisEvent{
		Type:    eventType,
		Round:   round,
		Payload: payload,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	key := roomEventsKey(code)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -200, -1)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}
