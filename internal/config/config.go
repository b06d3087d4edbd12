package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the grading API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	EventSubjectPrefix  string
	JWTSecret           string
	CipherEngineURL     string
	CipherEngineAPIKey  string
	CipherEngineTimeout time.Duration
	GradebookCacheTTL   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SEALGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SealGrade API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.prefix", "sealgrade")
	v.SetDefault("gradebook.cache_ttl", "30s")
	v.SetDefault("cipher_engine.timeout", "10s")

	ttl, err := time.ParseDuration(v.GetString("gradebook.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid gradebook cache ttl: %w", err)
	}

	engineTimeout, err := time.ParseDuration(v.GetString("cipher_engine.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid cipher engine timeout: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		EventSubjectPrefix:  v.GetString("events.prefix"),
		JWTSecret:           v.GetString("jwt.secret"),
		CipherEngineURL:     v.GetString("cipher_engine.url"),
		CipherEngineAPIKey:  v.GetString("cipher_engine.api_key"),
		CipherEngineTimeout: engineTimeout,
		GradebookCacheTTL:   ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
