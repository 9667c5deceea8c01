package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":3000")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.AdminEmail != "admin@gdash.com" {
		t.Errorf("AdminEmail = %q, want admin@gdash.com", cfg.AdminEmail)
	}
	if cfg.AMQPQueue != "weather_data" {
		t.Errorf("AMQPQueue = %q, want weather_data", cfg.AMQPQueue)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "50")
	if _, err := Load(); err == nil {
		t.Fatal("Load should reject BCRYPT_COST above 31")
	}
}

func TestConfig_AccessTTLFallback(t *testing.T) {
	c := &Config{JWTAccessTTL: "not-a-duration"}
	if got := c.AccessTTL(); got != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h fallback", got)
	}
}

func TestConfig_CORSOrigins(t *testing.T) {
	c := &Config{CORSAllowedOrigins: "http://localhost:5173/, https://gdash.example.com ,"}
	got := c.CORSOrigins()
	want := []string{"http://localhost:5173", "https://gdash.example.com"}
	if len(got) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
