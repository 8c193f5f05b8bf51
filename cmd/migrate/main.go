package main

import (
	"os"

	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	sourceURL := "file://migrations"
	if len(os.Args) > 1 {
		sourceURL = os.Args[1]
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("source", sourceURL).
		Msg("Running database migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), sourceURL); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
