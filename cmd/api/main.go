package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shoplab/internal/config"
	"shoplab/internal/db"
	"shoplab/internal/httpserver"
	"shoplab/internal/mail"
	"shoplab/internal/migrate"
	cartrepo "shoplab/internal/repository/cart"
	orderrepo "shoplab/internal/repository/order"
	productrepo "shoplab/internal/repository/product"
	reportrepo "shoplab/internal/repository/report"
	reviewrepo "shoplab/internal/repository/review"
	tokenrepo "shoplab/internal/repository/token"
	userrepo "shoplab/internal/repository/user"
	adminsvc "shoplab/internal/service/admin"
	authsvc "shoplab/internal/service/auth"
	cartsvc "shoplab/internal/service/cart"
	ordersvc "shoplab/internal/service/order"
	productsvc "shoplab/internal/service/product"
	reviewsvc "shoplab/internal/service/review"
	usersvc "shoplab/internal/service/user"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	version, err := migrate.Apply(ctx, dbpool, logger)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Printf("schema at version %d", version)

	sqlDB := stdlib.OpenDBFromPool(dbpool)
	defer sqlDB.Close()

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	} else {
		logger.Printf("SMTP_HOST not set, password reset mail goes to the log")
		mailer = mail.NewLogMailer(logger)
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)
	resetRepo := tokenrepo.NewPostgres(dbpool)
	reportRepo := reportrepo.NewSQL(sqlDB, logger)

	tokens := authsvc.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	authService := authsvc.New(userRepo, resetRepo, tokens, mailer, authsvc.Options{
		ResetTTL: cfg.ResetTokenTTL,
		BaseURL:  cfg.AppBaseURL,
		Logger:   logger,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		UserSvc:     usersvc.New(userRepo, logger),
		ProductSvc:  productsvc.New(productRepo, logger),
		CartSvc:     cartsvc.New(cartRepo, productRepo),
		OrderSvc:    ordersvc.New(orderRepo, logger),
		ReviewSvc:   reviewsvc.New(reviewRepo, productRepo),
		AdminSvc:    adminsvc.New(reportRepo),
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
