package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accounthandler "gdash/backend/internal/account/handler"
	accountrepo "gdash/backend/internal/account/repository"
	accountservice "gdash/backend/internal/account/service"
	"gdash/backend/internal/audit"
	auditrepo "gdash/backend/internal/audit/repository"
	"gdash/backend/internal/bootstrap"
	"gdash/backend/internal/config"
	"gdash/backend/internal/db"
	obsotel "gdash/backend/internal/observability/otel"
	"gdash/backend/internal/security"
	"gdash/backend/internal/server"
	weatherhandler "gdash/backend/internal/weather/handler"
	weatherrepo "gdash/backend/internal/weather/repository"
	weatherservice "gdash/backend/internal/weather/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; refusing to serve")
	}
	if cfg.AdminPassword == "123456" {
		if cfg.Env == "production" {
			log.Fatal("ADMIN_PASSWORD still has the development default; set a real one")
		}
		log.Println("warning: ADMIN_PASSWORD is the development default")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	providers, err := obsotel.NewProviders(ctx, cfg.OTLPEndpoint, "gdash-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("observability: %v", err)
	}
	providers.SetGlobal()

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens, err := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	accounts := accountrepo.NewPostgresRepository(conn)
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn))

	// The admin invariant must hold before the first request is served.
	if err := bootstrap.EnsureAdmin(ctx, accounts, hasher, auditor, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	accountSvc := accountservice.NewService(accounts, hasher, tokens)
	weatherSvc := weatherservice.NewService(weatherrepo.NewPostgresRepository(conn))

	router := server.NewRouter(server.Deps{
		Tokens:      tokens,
		Accounts:    accounts,
		AccountH:    accounthandler.New(accountSvc, accounts, auditor),
		WeatherH:    weatherhandler.New(weatherSvc),
		CORSOrigins: cfg.CORSOrigins(),
		DB:          conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("observability shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
