package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	env := FromViper(v)

	if env.AppAddr != ":8080" {
		t.Fatalf("AppAddr = %q, want :8080", env.AppAddr)
	}
	if env.DBDriver != DriverMySQL {
		t.Fatalf("DBDriver = %q, want mysql", env.DBDriver)
	}
	if env.MaxJourneysPerDay != 20 {
		t.Fatalf("MaxJourneysPerDay = %d, want 20", env.MaxJourneysPerDay)
	}
	if env.HistoryCacheTTL != 30*time.Second {
		t.Fatalf("HistoryCacheTTL = %s", env.HistoryCacheTTL)
	}
	if len(env.CORSAllowedOrigins) != len(defaultCORSOrigins) {
		t.Fatalf("CORS origins = %v", env.CORSAllowedOrigins)
	}
}

func TestFromViperReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("FARE_SERVICE_URL", "http://fares.internal/api/")
	t.Setenv("FARE_SERVICE_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MAX_JOURNEYS_PER_DAY", "0")

	v := viper.New()
	SetDefaults(v)
	env := FromViper(v)

	if env.AppAddr != ":9090" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.DBDriver != DriverPgx {
		t.Fatalf("DBDriver = %q, want pgx", env.DBDriver)
	}
	if env.FareServiceURL != "http://fares.internal/api" {
		t.Fatalf("FareServiceURL = %q", env.FareServiceURL)
	}
	if env.FareServiceTimeout != 3*time.Second {
		t.Fatalf("FareServiceTimeout = %s", env.FareServiceTimeout)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CORS origins = %v", env.CORSAllowedOrigins)
	}
	if env.MaxJourneysPerDay != 20 {
		t.Fatalf("MaxJourneysPerDay = %d, want fallback 20", env.MaxJourneysPerDay)
	}
}

func TestValidateJWTSecret(t *testing.T) {
	cases := []struct {
		name    string
		env     Env
		wantErr bool
	}{
		{"dev secret in default mode", Env{JWTSecret: DevJWTSecret}, false},
		{"dev secret in debug", Env{JWTSecret: DevJWTSecret, GinMode: "debug"}, false},
		{"dev secret in release", Env{JWTSecret: DevJWTSecret, GinMode: "release"}, true},
		{"dev secret in test mode", Env{JWTSecret: DevJWTSecret, GinMode: "test"}, true},
		{"empty secret", Env{JWTSecret: "  ", GinMode: "debug"}, true},
		{"custom secret in release", Env{JWTSecret: "s3cr3t", GinMode: "release"}, false},
	}
	for _, tc := range cases {
		err := tc.env.Validate()
		if tc.wantErr && !errors.Is(err, ErrInsecureJWTSecret) {
			t.Fatalf("%s: expected ErrInsecureJWTSecret, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}

	if !(Env{JWTSecret: DevJWTSecret}).UsesDevJWTSecret() {
		t.Fatalf("default secret should be reported")
	}
	if (Env{JWTSecret: "s3cr3t"}).UsesDevJWTSecret() {
		t.Fatalf("custom secret reported as default")
	}
}

func TestFromViperDefaultsToDevJWTSecret(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	if env := FromViper(v); env.JWTSecret != DevJWTSecret {
		t.Fatalf("JWTSecret = %q", env.JWTSecret)
	}
}
