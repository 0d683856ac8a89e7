package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
)

// ConfigSecretName holds JSON overrides for the storefront when AWS_USE_SECRETS=true.
const ConfigSecretName = "storefront/CONFIG"

// Config holds the loaded configuration
type Config struct {
	AppEnv              string
	Port                string
	BackendURL          string
	RedisURL            string
	SessionTTL          time.Duration
	RequestTimeout      time.Duration
	SuccessCountdown    time.Duration
	OnlinePaymentDelay  time.Duration
	LogEnv              string
	CloudWatchEnabled   bool
	OrderEventsTopicARN string
	AllowedOrigins      []string
}

// SecretGetter is the part of the Secrets Manager client the loader needs.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Load reads the .env file (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		ctx := context.Background()
		if awsCfg, err := awspkg.LoadAWSConfig(ctx); err == nil {
			if err := cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg)); err != nil {
				log.Printf("secrets override skipped: %v", err)
			}
		} else {
			log.Printf("aws config unavailable, secrets override skipped: %v", err)
		}
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	appEnv := getEnv("APP_ENV", "local")

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		if appEnv == "production" {
			backendURL = os.Getenv("BACKEND_PROD_URL")
			if backendURL == "" {
				return nil, fmt.Errorf("BACKEND_PROD_URL is required when APP_ENV=production")
			}
		} else {
			backendURL = getEnv("BACKEND_LOCAL_URL", "http://localhost:4000/api")
		}
	}

	cfg := &Config{
		AppEnv:              appEnv,
		Port:                getEnv("PORT", "8000"),
		BackendURL:          strings.TrimSuffix(backendURL, "/"),
		RedisURL:            os.Getenv("REDIS_URL"),
		LogEnv:              getEnv("LOG_ENV", appEnv),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		OrderEventsTopicARN: os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"SESSION_TTL", "720h", &cfg.SessionTTL},
		{"REQUEST_TIMEOUT", "0s", &cfg.RequestTimeout},
		{"SUCCESS_COUNTDOWN", "3s", &cfg.SuccessCountdown},
		{"ONLINE_PAYMENT_DELAY", "2s", &cfg.OnlinePaymentDelay},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid %s: %q", d.key, os.Getenv(d.key))
		}
		*d.dst = v
	}

	return cfg, nil
}

// ApplySecrets overrides the backend and Redis URLs from the JSON secret.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) error {
	raw, err := sm.GetSecret(ctx, ConfigSecretName)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return fmt.Errorf("decode %s: %w", ConfigSecretName, err)
	}
	if v := m["BACKEND_URL"]; v != "" {
		c.BackendURL = strings.TrimSuffix(v, "/")
	}
	if v := m["REDIS_URL"]; v != "" {
		c.RedisURL = v
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); part != "" {
			out = append(out, part)
		}
	}
	return out
}
