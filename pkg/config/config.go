package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}
	DB struct {
		Name         string `envconfig:"DB_NAME"`
		Host         string `envconfig:"DB_HOST"`
		Port         int    `envconfig:"DB_PORT"`
		User         string `envconfig:"DB_USER"`
		Pass         string `envconfig:"DB_PASS"`
		EnableSSL    bool   `envconfig:"ENABLE_SSL"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	}
	Cache struct {
		Driver          string        `envconfig:"CACHE_DRIVER" default:"redis"`
		RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
		RedisDB         int           `envconfig:"REDIS_DB"`
		BadgerPath      string        `envconfig:"BADGER_PATH" default:"data/cache"`
		Timeout         time.Duration `envconfig:"CACHE_TIMEOUT" default:"500ms"`
		BreakerFailures uint32        `envconfig:"CACHE_BREAKER_FAILURES" default:"5"`
		BreakerCooldown time.Duration `envconfig:"CACHE_BREAKER_COOLDOWN" default:"30s"`
	}
	Catalog struct {
		BaseURL   string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
		APIKey    string        `envconfig:"TMDB_API_KEY"`
		Timeout   time.Duration `envconfig:"TMDB_TIMEOUT" default:"10s"`
		RateLimit float64       `envconfig:"TMDB_RATE_LIMIT" default:"40"`
		RateBurst int           `envconfig:"TMDB_RATE_BURST" default:"10"`
	}
	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		UserClaim string `envconfig:"AUTH_USER_CLAIM" default:"sub"`
		TokenTTL  int    `envconfig:"AUTH_TOKEN_TTL" default:"3600"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
