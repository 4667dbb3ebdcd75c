package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/config"
	"github.com/kickerlog/kickerlog/internal/database"
	server "github.com/kickerlog/kickerlog/internal/http"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/metrics"
	"github.com/kickerlog/kickerlog/internal/notifier"
	"github.com/kickerlog/kickerlog/internal/notifier/slack"
	"github.com/kickerlog/kickerlog/internal/player"
	"github.com/kickerlog/kickerlog/internal/sharetoken"
	"github.com/kickerlog/kickerlog/internal/stats"
	"github.com/kickerlog/kickerlog/internal/team"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clock := clockwork.NewRealClock()
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	teamStore := team.New(db, clock)
	playerStore := player.New(db, clock)
	matchStore := match.New(db, clock)
	aggregator := stats.New(db, clock)
	tokenStore := sharetoken.New(db, clock)

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Enabled {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
		log.Info("Slack notifications enabled", "channelID", cfg.Slack.ChannelID)
	}

	s := server.NewServer(
		teamStore,
		playerStore,
		matchStore,
		aggregator,
		tokenStore,
		metricsSvc,
		metricsHandler,
		notif,
		cfg,
		clock,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
