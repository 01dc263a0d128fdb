package main

import (
	"context"
	"log"
	"os"

	"shoplab/internal/config"
	"shoplab/internal/db"
	"shoplab/internal/migrate"
	productrepo "shoplab/internal/repository/product"
	userrepo "shoplab/internal/repository/user"
	"shoplab/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	users := userrepo.NewPostgres(pool, logger)
	products := productrepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, users, products, cfg.SeedAdminPassword, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
