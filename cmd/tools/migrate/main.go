package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-carwash/internal/db"
	"github.com/noah-isme/backend-carwash/internal/obs"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	flag.Parse()

	_ = godotenv.Load()
	logger := obs.NewLogger("carwash-migrate", os.Getenv("OBS_LOG_FORMAT"), os.Getenv("OBS_LOG_LEVEL"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	if *down > 0 {
		if err := db.Rollback(dbURL, *down); err != nil {
			logger.Fatal().Err(err).Int("steps", *down).Msg("rollback failed")
		}
		logger.Info().Int("steps", *down).Msg("rolled back")
		return
	}

	version, applied, err := db.Migrate(dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}
	logger.Info().Uint("version", version).Bool("applied", applied).Msg("schema up to date")
}
