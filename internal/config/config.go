package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            int
	APIKey          string
	CORSAllowOrigin string
	AppName         string

	// Providers (from .env)
	CollectAPIKey       string
	CollectAPIBaseURL   string
	ExchangeRateBaseURL string
	FXAccessKey         string
	FXBaseURL           string

	// Polling
	CurrencyPollSeconds int
	GoldPollSeconds     int

	// Alerts
	AlertThresholdPercent float64
	WebhookURL            string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Server
		Port:            envInt("PORT", 8080),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		AppName:         envStr("APP_NAME", "KurPanel"),

		// Providers
		CollectAPIKey:       envStr("COLLECTAPI_KEY", ""),
		CollectAPIBaseURL:   envStr("COLLECTAPI_BASE_URL", ""),
		ExchangeRateBaseURL: envStr("EXCHANGERATE_BASE_URL", ""),
		FXAccessKey:         envStr("FX_ACCESS_KEY", ""),
		FXBaseURL:           envStr("FX_BASE_URL", ""),

		// Polling
		CurrencyPollSeconds: envInt("CURRENCY_POLL_SECONDS", 60),
		GoldPollSeconds:     envInt("GOLD_POLL_SECONDS", 30),

		// Alerts
		AlertThresholdPercent: envFloat("ALERT_THRESHOLD_PERCENT", 0.1),
		WebhookURL:            envStr("WEBHOOK_URL", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}
	if c.CurrencyPollSeconds <= 0 {
		errs = append(errs, "CURRENCY_POLL_SECONDS must be positive")
	}
	if c.GoldPollSeconds <= 0 {
		errs = append(errs, "GOLD_POLL_SECONDS must be positive")
	}
	if c.CollectAPIKey == "" {
		fmt.Println("[WARN] COLLECTAPI_KEY not set — gold polling will fail until configured")
	}
	if c.FXAccessKey == "" {
		fmt.Println("[WARN] FX_ACCESS_KEY not set — profit/loss simulation unavailable")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if c.AlertThresholdPercent <= 0 {
		fmt.Println("[WARN] ALERT_THRESHOLD_PERCENT is 0 or negative — every rate refresh raises a notification")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== KurPanel Rate Dashboard Configuration ===")
	fmt.Printf("App Name: %s\n", c.AppName)
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("API Auth: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Println("--------------------------------------")
	fmt.Println("Polling:")
	fmt.Printf("  Currency: every %ds\n", c.CurrencyPollSeconds)
	fmt.Printf("  Gold: every %ds\n", c.GoldPollSeconds)
	fmt.Println("--------------------------------------")
	fmt.Println("Providers:")
	fmt.Printf("  CollectAPI: %s\n", boolLabel(c.CollectAPIKey != "", "configured", "not set"))
	fmt.Printf("  Historical FX: %s\n", boolLabel(c.FXAccessKey != "", "configured", "not set"))
	fmt.Println("--------------------------------------")
	fmt.Println("Alerts:")
	fmt.Printf("  Threshold: %.2f%%\n", c.AlertThresholdPercent)
	fmt.Printf("  Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "console only"))
	fmt.Println("======================================")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
