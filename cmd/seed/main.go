// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@gdash.com) already exists.
// The bootstrap admin is not handled here; cmd/server seeds it at startup.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	accountdomain "gdash/backend/internal/account/domain"
	accountrepo "gdash/backend/internal/account/repository"
	"gdash/backend/internal/config"
	"gdash/backend/internal/db"
	"gdash/backend/internal/security"
	weatherdomain "gdash/backend/internal/weather/domain"
	weatherrepo "gdash/backend/internal/weather/repository"
)

const (
	devUserEmail = "dev@gdash.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	accounts := accountrepo.NewPostgresRepository(conn)

	existing, err := accounts.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@gdash.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	if err := accounts.Create(ctx, &accountdomain.Account{
		ID:           uuid.New().String(),
		Email:        devUserEmail,
		Name:         "Dev User",
		PasswordHash: passwordHash,
		Role:         accountdomain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	logs := weatherrepo.NewPostgresRepository(conn)
	for i := 0; i < 24; i++ {
		at := now.Add(-time.Duration(i) * time.Hour)
		l := &weatherdomain.Log{
			Latitude:      -9.4072,
			Longitude:     -36.6275,
			Temperature:   24 + float64(i%8),
			Humidity:      60 + float64(i%30),
			IsDay:         boolToInt(at.Hour() > 6 && at.Hour() < 18),
			Precipitation: float64(i%5) * 0.2,
			ReadingAt:     at,
			CreatedAt:     at,
		}
		if err := logs.Create(ctx, l); err != nil {
			log.Fatalf("create weather log: %v", err)
		}
	}

	log.Println("Seed completed successfully.")
	log.Printf("Dev login: %s / %s", devUserEmail, devPassword)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
