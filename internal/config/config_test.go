package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("JWT_EXPIRES", "")
	t.Setenv("COOKIE_EXPIRE", "")
	t.Setenv("MINIO_BUCKET", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTExpiry != 7*24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 168h", cfg.JWTExpiry)
	}
	if cfg.CookieExpiry != 7*24*time.Hour {
		t.Errorf("CookieExpiry = %v, want 168h", cfg.CookieExpiry)
	}
	if cfg.MinioBucket != "doctor-avatars" {
		t.Errorf("MinioBucket = %q", cfg.MinioBucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES", "12h")
	t.Setenv("COOKIE_EXPIRE", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MONGO_DATABASE", "")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.JWTExpiry != 12*time.Hour {
		t.Errorf("JWTExpiry = %v", cfg.JWTExpiry)
	}
	if cfg.CookieExpiry != 72*time.Hour {
		t.Errorf("CookieExpiry = %v", cfg.CookieExpiry)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := &Config{DBDriver: "mongo", MongoDatabase: "hospital"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
}

func TestValidateDriver(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{"mongo", false},
		{"memory", false},
		{"postgres", true},
	}
	for _, tt := range tests {
		cfg := &Config{JWTSecret: "x", DBDriver: tt.driver, MongoDatabase: "hospital"}
		if err := cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%s) = %v", tt.driver, err)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"2", 48 * time.Hour},
		{"90m", 90 * time.Minute},
		{"garbage", time.Hour},
		{"0", time.Hour},
		{"-5m", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseDuration(tt.in, time.Hour); got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://app.example", DashboardURL: " "}
	got := cfg.CORSOrigins()
	if len(got) != 1 || got[0] != "https://app.example" {
		t.Errorf("CORSOrigins() = %v", got)
	}
}
