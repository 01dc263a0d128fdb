package main

import (
	"context"
	"flag"
	"log"
	"os"

	"shoplab/internal/config"
	"shoplab/internal/db"
	"shoplab/internal/migrate"

	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down > 0 {
		if err := migrate.Rollback(ctx, pool, logger, *down); err != nil {
			logger.Fatalf("rollback: %v", err)
		}
		logger.Printf("rolled back %d migration(s)", *down)
		return
	}

	version, err := migrate.Apply(ctx, pool, logger)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Printf("migrations applied, schema version %d", version)
}
