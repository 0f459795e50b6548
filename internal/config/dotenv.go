package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	AIProviderOpenAI = "openai"
	AIProviderCanned = "canned"
	AIProviderOff    = "off"
)

type Config struct {
	Port      string
	PublicURL string
	LogLevel  string

	StoreBackend   string
	DatabaseURL    string
	RedisURL       string
	RoomTTLSeconds int

	DefaultMaxParticipants int
	DefaultRoundSeconds    int
	VoteSeconds            int
	EmptyRoomTTLSeconds    int
	SweepIntervalSeconds   int

	AIProvider           string
	AIReplyDelayMillis   int
	AIReplyTimeoutSecond int
	AIPersonaPath        string
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string

	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int

	WSEventsPerSecond    float64
	WSEventBurst         int
	CreateRoomsPerMinute int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		PublicURL:                "http://localhost:8080",
		LogLevel:                 "info",
		StoreBackend:             StoreMemory,
		RoomTTLSeconds:           6 * 60 * 60,
		DefaultMaxParticipants:   5,
		DefaultRoundSeconds:      180,
		VoteSeconds:              30,
		EmptyRoomTTLSeconds:      10 * 60,
		SweepIntervalSeconds:     60,
		AIProvider:               AIProviderCanned,
		AIReplyDelayMillis:       1500,
		AIReplyTimeoutSecond:     20,
		OpenAIModel:              "gpt-4o-mini",
		OpenAIBaseURL:            "https://api.openai.com/v1",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		WSEventsPerSecond:        5,
		WSEventBurst:             10,
		CreateRoomsPerMinute:     10,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("PUBLIC_URL"); raw != "" {
		cfg.PublicURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = strings.ToLower(raw)
	}
	if raw := os.Getenv("STORE_BACKEND"); raw != "" {
		cfg.StoreBackend = strings.ToLower(raw)
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		cfg.RedisURL = raw
	}
	positiveInt("ROOM_TTL_SECONDS", &cfg.RoomTTLSeconds)
	positiveInt("DEFAULT_MAX_PARTICIPANTS", &cfg.DefaultMaxParticipants)
	positiveInt("DEFAULT_ROUND_SECONDS", &cfg.DefaultRoundSeconds)
	positiveInt("VOTE_SECONDS", &cfg.VoteSeconds)
	positiveInt("EMPTY_ROOM_TTL_SECONDS", &cfg.EmptyRoomTTLSeconds)
	positiveInt("SWEEP_INTERVAL_SECONDS", &cfg.SweepIntervalSeconds)

	if raw := os.Getenv("AI_PROVIDER"); raw != "" {
		cfg.AIProvider = strings.ToLower(raw)
	}
	if raw := os.Getenv("AI_REPLY_DELAY_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.AIReplyDelayMillis = value
		}
	}
	positiveInt("AI_REPLY_TIMEOUT_SECONDS", &cfg.AIReplyTimeoutSecond)
	if raw := os.Getenv("AI_PERSONA_PATH"); raw != "" {
		cfg.AIPersonaPath = raw
	}
	if raw := os.Getenv("OPENAI_API_KEY"); raw != "" {
		cfg.OpenAIAPIKey = raw
		if os.Getenv("AI_PROVIDER") == "" {
			cfg.AIProvider = AIProviderOpenAI
		}
	}
	if raw := os.Getenv("OPENAI_MODEL"); raw != "" {
		cfg.OpenAIModel = raw
	}
	if raw := os.Getenv("OPENAI_BASE_URL"); raw != "" {
		cfg.OpenAIBaseURL = strings.TrimRight(raw, "/")
	}

	positiveInt("DB_MAX_OPEN_CONNS", &cfg.DBMaxOpenConns)
	positiveInt("DB_MAX_IDLE_CONNS", &cfg.DBMaxIdleConns)
	positiveInt("DB_CONN_MAX_LIFETIME_SECONDS", &cfg.DBConnMaxLifetimeSeconds)
	positiveInt("DB_CONN_MAX_IDLE_SECONDS", &cfg.DBConnMaxIdleTimeSeconds)

	if raw := os.Getenv("WS_EVENTS_PER_SECOND"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.WSEventsPerSecond = value
		}
	}
	positiveInt("WS_EVENT_BURST", &cfg.WSEventBurst)
	positiveInt("CREATE_ROOMS_PER_MINUTE", &cfg.CreateRoomsPerMinute)
	return cfg
}

func positiveInt(name string, dst *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	if value, err := strconv.Atoi(raw); err == nil && value > 0 {
		*dst = value
	}
}

func (c Config) VoteDuration() time.Duration {
	return time.Duration(c.VoteSeconds) * time.Second
}

func (c Config) AIReplyDelay() time.Duration {
	return time.Duration(c.AIReplyDelayMillis) * time.Millisecond
}

func (c Config) AIReplyTimeout() time.Duration {
	return time.Duration(c.AIReplyTimeoutSecond) * time.Second
}

func (c Config) RoomTTL() time.Duration {
	return time.Duration(c.RoomTTLSeconds) * time.Second
}

func (c Config) EmptyRoomTTL() time.Duration {
	return time.Duration(c.EmptyRoomTTLSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}
