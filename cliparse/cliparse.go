package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Payment provider
	StripeSecretKey     string
	StripeWebhookSecret string
	ProviderTimeout     time.Duration

	// Vote pricing in minor units (cents) per vote
	PricePerVote int64

	// Admin bearer credential for settings mutation
	AdminToken string

	// Comma-separated in env; "*" allows any origin
	AllowedOrigins []string

	// Candidate names seeded when the table is empty
	Candidates []string
}

// ParseFlags validates flags and sets defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins, candidates string

	fs := flag.NewFlagSet("glowvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.StripeSecretKey, "stripe-key", "", "Stripe secret key (prefer env)")
	fs.StringVar(&cfg.StripeWebhookSecret, "webhook-secret", "", "Stripe webhook signing secret (prefer env)")
	fs.StringVar(&cfg.AdminToken, "admin-token", "", "Admin bearer token (prefer env)")

	fs.Int64Var(&cfg.PricePerVote, "price", 0, "Price per vote in minor units")
	fs.StringVar(&origins, "origins", "", "Comma-separated allowed CORS origins")
	fs.StringVar(&candidates, "candidates", "", "Comma-separated candidate names for seeding")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4242 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "sqlite" {
			cfg.DatabaseURL = "glowvote.db" // default
		} else {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}

	// Secrets - MUST be provided
	if cfg.StripeSecretKey == "" {
		cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	}
	if cfg.StripeSecretKey == "" {
		return Config{}, errors.New("STRIPE_SECRET_KEY required")
	}

	if cfg.StripeWebhookSecret == "" {
		cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	}
	if cfg.StripeWebhookSecret == "" {
		return Config{}, errors.New("STRIPE_WEBHOOK_SECRET required")
	}

	if cfg.AdminToken == "" {
		cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	}
	if cfg.AdminToken == "" {
		return Config{}, errors.New("ADMIN_TOKEN required")
	}

	if cfg.PricePerVote == 0 {
		if priceStr := os.Getenv("PRICE_PER_VOTE"); priceStr != "" {
			price, err := strconv.ParseInt(priceStr, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid PRICE_PER_VOTE env variable")
			}
			cfg.PricePerVote = price
		} else {
			cfg.PricePerVote = 100 // default: 1.00 in minor units
		}
	}
	if cfg.PricePerVote <= 0 {
		return Config{}, errors.New("PRICE_PER_VOTE must be positive")
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	if origins == "" {
		origins = "*"
	}
	cfg.AllowedOrigins = splitTrim(origins)

	if candidates == "" {
		candidates = os.Getenv("CANDIDATES")
	}
	if candidates == "" {
		candidates = "Yes,No"
	}
	cfg.Candidates = splitTrim(candidates)
	if len(cfg.Candidates) == 0 {
		return Config{}, errors.New("CANDIDATES must name at least one candidate")
	}

	cfg.ProviderTimeout = 10 * time.Second
	if timeoutStr := os.Getenv("PROVIDER_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil || timeout <= 0 {
			return Config{}, errors.New("invalid PROVIDER_TIMEOUT env variable")
		}
		cfg.ProviderTimeout = timeout
	}

	return cfg, nil
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
