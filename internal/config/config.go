package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	FrontendURL string

	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Region      string
	S3UseSSL      bool
	UploadsBucket string

	AMQPURL        string
	EventsExchange string

	LogLevel string
}

// Load reads the configuration from environment variables. Required keys
// produce an error when missing so the server fails at startup rather than
// on the first request.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        envOr("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		FrontendURL: envOr("FRONTEND_URL", "http://localhost:3000"),

		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Region:      envOr("S3_REGION", "us-east-1"),
		S3UseSSL:      envBool("S3_USE_SSL", true),
		UploadsBucket: envOr("S3_UPLOADS_BUCKET", "shop-uploads"),

		AMQPURL:        os.Getenv("AMQP_URL"),
		EventsExchange: envOr("AMQP_EVENTS_EXCHANGE", "printq.events"),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	for key, val := range map[string]string{
		"DATABASE_URL":  cfg.DatabaseURL,
		"JWT_SECRET":    cfg.JWTSecret,
		"S3_ENDPOINT":   cfg.S3Endpoint,
		"S3_ACCESS_KEY": cfg.S3AccessKey,
		"S3_SECRET_KEY": cfg.S3SecretKey,
		"AMQP_URL":      cfg.AMQPURL,
	} {
		if val == "" {
			return nil, fmt.Errorf("missing required environment variable %s", key)
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
