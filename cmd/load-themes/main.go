package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"spot-the-bot/internal/config"
	"spot-the-bot/internal/db"
	"spot-the-bot/internal/logger"
)

func main() {
	filePath := flag.String("file", "db/themes.csv", "path to theme,question csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	logger.New(cfg.LogLevel)

	conn, err := db.Open(cfg.DatabaseURL, db.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	inserted, err := db.LoadThemes(conn, *filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("failed to load themes")
	}
	log.Info().Int("questions", inserted).Msg("loaded themes")
}
