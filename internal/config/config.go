package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	DatabaseURL          string
	DatabaseMaxOpenConns int
	CORSAllowOrigins     string
	RedisURL             string
	NATSURL              string
	EventsChannel        string
	ResultCacheTTL       time.Duration
	JWTSecret            string
	OpenAIAPIKey         string
	OpenAIModel          string
	WritingLanguage      string
	WritingDefaultPoints float64
	JudgeTimeout         time.Duration
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
	v.SetEnvPrefix("LINGUA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Lingua Exam API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("events.channel", "lingua:results")
	v.SetDefault("result_cache_ttl", "10m")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("writing.language", "German")
	v.SetDefault("writing.default_points", 5)
	v.SetDefault("judge_timeout_ms", 15000)

	ttlString := v.GetString("result_cache_ttl")
	if ttlString == "" {
		ttlString = "10m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid result cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("judge_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 15000
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		DatabaseURL:          v.GetString("database.url"),
		DatabaseMaxOpenConns: v.GetInt("database.max_open_conns"),
		CORSAllowOrigins:     strings.TrimSpace(v.GetString("cors.allow_origins")),
		RedisURL:             v.GetString("redis.url"),
		NATSURL:              v.GetString("nats.url"),
		EventsChannel:        strings.TrimSpace(v.GetString("events.channel")),
		ResultCacheTTL:       ttl,
		JWTSecret:            v.GetString("jwt.secret"),
		OpenAIAPIKey:         v.GetString("openai_api_key"),
		OpenAIModel:          v.GetString("openai_model"),
		WritingLanguage:      strings.TrimSpace(v.GetString("writing.language")),
		WritingDefaultPoints: v.GetFloat64("writing.default_points"),
		JudgeTimeout:         time.Duration(timeoutMs) * time.Millisecond,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.WritingDefaultPoints <= 0 {
		cfg.WritingDefaultPoints = 5
	}

	return cfg, nil
}
