package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spot-the-bot/internal/db"
	"spot-the-bot/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps room documents and the event log in postgres.
type GormStore struct {
	conn *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{conn: conn}
}

func roomRecord(room *game.Room) (db.Room, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return db.Room{}, err
	}
	return db.Room{
		Code:                 room.Code,
		Phase:                string(room.Phase),
		HostID:               room.HostID,
		MaxParticipants:      room.MaxParticipants,
		RoundDurationSeconds: room.RoundDurationSeconds,
		Round:                room.Round,
		Document:             datatypes.JSON(data),
	}, nil
}

func (s *GormStore) Create(ctx context.Context, room *game.Room) error {
	record, err := roomRecord(room)
	if err != nil {
		return err
	}
	if err := s.conn.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrRoomCodeTaken
		}
		return err
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context, code string) (*game.Room, error) {
	var record db.Room
	err := s.conn.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	var room game.Room
	if err := json.Unmarshal(record.Document, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", code, err)
	}
	return &room, nil
}

func (s *GormStore) Save(ctx context.Context, room *game.Room) error {
	record, err := roomRecord(room)
	if err != nil {
		return err
	}
	return s.conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"phase",
			"host_id",
			"max_participants",
			"round_duration_seconds",
			"round",
			"document",
			"updated_at",
		}),
	}).Create(&record).Error
}

func (s *GormStore) Delete(ctx context.Context, code string) error {
	return s.conn.WithContext(ctx).Where("code = ?", code).Delete(&db.Room{}).Error
}

func (s *GormStore) RecordEvent(ctx context.Context, code string, round int, eventType string, payload EventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomCode: code,
		Round:    round,
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return s.conn.WithContext(ctx).Create(&event).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
