package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/api"
	"github.com/kurpanel/kurpanel-backend/internal/config"
	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
	"github.com/kurpanel/kurpanel-backend/internal/external"
	"github.com/kurpanel/kurpanel-backend/internal/notifications"
)

const banner = `
╔══════════════════════════════════════╗
║      KurPanel Rate Dashboard         ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Providers
	currency := external.NewExchangeRateClient(cfg.ExchangeRateBaseURL)
	gold := external.NewCollectAPIClient(cfg.CollectAPIKey, cfg.CollectAPIBaseURL)
	history := external.NewHistoricalFXClient(cfg.FXAccessKey, cfg.FXBaseURL)

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)

	// Dashboard core: pollers, ledgers, notification center
	dash := dashboard.NewService(dashboard.Options{
		Currency:              currency,
		Gold:                  gold,
		History:               history,
		Notify:                notify,
		CurrencyInterval:      time.Duration(cfg.CurrencyPollSeconds) * time.Second,
		GoldInterval:          time.Duration(cfg.GoldPollSeconds) * time.Second,
		AlertThresholdPercent: cfg.AlertThresholdPercent,
	})

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(dash, cfg.Port, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// 2. Rate polling
	dash.Start()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	dash.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
