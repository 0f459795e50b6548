package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room holds the serialized room document plus the columns worth querying.
type Room struct {
	ID                   uint           `gorm:"primaryKey"`
	Code                 string         `gorm:"size:12;uniqueIndex;not null"`
	Phase                string         `gorm:"size:32;not null"`
	HostID               string         `gorm:"size:64"`
	MaxParticipants      int            `gorm:"not null"`
	RoundDurationSeconds int            `gorm:"not null"`
	Round                int            `gorm:"not null;default:0"`
	Document             datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt            time.Time      `gorm:"not null"`
	UpdatedAt            time.Time      `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomCode  string         `gorm:"size:12;index;not null"`
	Round     int            `gorm:"not null;default:0"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

type Theme struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Questions []ThemeQuestion
}

type ThemeQuestion struct {
	ID        uint      `gorm:"primaryKey"`
	ThemeID   uint      `gorm:"index;not null;uniqueIndex:idx_theme_questions_theme_text"`
	Position  int       `gorm:"not null"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_theme_questions_theme_text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
