package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pearlcard/internal/domain"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDriver string
	DBDSN    string

	FareServiceURL     string
	FareServiceTimeout time.Duration

	RedisURL        string
	HistoryCacheTTL time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	DisplayTimezone   string
	MaxJourneysPerDay int
}

// DevJWTSecret is the signing key used when JWT_SECRET is unset. It is
// public, so only debug mode may run with it.
const DevJWTSecret = "dev-secret-key-change-in-production"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET is unset or uses the development default; set it or run with GIN_MODE=debug")

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// SetDefaults registers every key with its default so env vars
// (APP_ADDR, DB_DSN, ...) and config files resolve through AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("db_driver", DriverMySQL)
	v.SetDefault("db_dsn", "")
	v.SetDefault("fare_service_url", "http://localhost:8000/api")
	v.SetDefault("fare_service_timeout", 10*time.Second)
	v.SetDefault("redis_url", "")
	v.SetDefault("history_cache_ttl", 30*time.Second)
	v.SetDefault("jwt_secret", DevJWTSecret)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("cors_allowed_origins", strings.Join(defaultCORSOrigins, ","))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("display_timezone", "Local")
	v.SetDefault("max_journeys_per_day", domain.MaxJourneysPerDay)
	v.AutomaticEnv()
}

// LoadEnv reads the process configuration from the global viper instance.
func LoadEnv() Env {
	SetDefaults(viper.GetViper())
	return FromViper(viper.GetViper())
}

func FromViper(v *viper.Viper) Env {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("db_driver")))
	if driver != DriverPgx {
		driver = DriverMySQL
	}

	maxPerDay := v.GetInt("max_journeys_per_day")
	if maxPerDay <= 0 {
		maxPerDay = domain.MaxJourneysPerDay
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("app_addr")),
		GinMode:            strings.TrimSpace(v.GetString("gin_mode")),
		DBDriver:           driver,
		DBDSN:              strings.TrimSpace(v.GetString("db_dsn")),
		FareServiceURL:     strings.TrimRight(strings.TrimSpace(v.GetString("fare_service_url")), "/"),
		FareServiceTimeout: v.GetDuration("fare_service_timeout"),
		RedisURL:           strings.TrimSpace(v.GetString("redis_url")),
		HistoryCacheTTL:    v.GetDuration("history_cache_ttl"),
		JWTSecret:          v.GetString("jwt_secret"),
		SessionTTL:         v.GetDuration("session_ttl"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		DisplayTimezone:    v.GetString("display_timezone"),
		MaxJourneysPerDay:  maxPerDay,
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// UsesDevJWTSecret reports whether sessions would be signed with the public
// development key.
func (e Env) UsesDevJWTSecret() bool {
	return strings.TrimSpace(e.JWTSecret) == "" || e.JWTSecret == DevJWTSecret
}

// Validate rejects settings the server must not run with. The development
// JWT secret is allowed only in gin debug mode ("" or "debug").
func (e Env) Validate() error {
	if strings.TrimSpace(e.JWTSecret) == "" {
		return ErrInsecureJWTSecret
	}
	if e.UsesDevJWTSecret() && e.GinMode != "" && e.GinMode != "debug" {
		return ErrInsecureJWTSecret
	}
	return nil
}
