package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"waba-admin/internal/api"
	"waba-admin/internal/backend"
	"waba-admin/internal/config"
	"waba-admin/internal/database"
	"waba-admin/internal/insights"
	"waba-admin/internal/logging"
	"waba-admin/internal/session"
	"waba-admin/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.LogLevel, cfg.AppEnv)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logging.Logger.Fatalf("Failed to open activity database: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	summarizer := insights.NewGeminiSummarizer(cfg.GeminiAPIKey, cfg.GeminiModel)
	if cfg.GeminiAPIKey == "" {
		logging.Logger.Warn("GEMINI_API_KEY not set, analytics summaries are disabled")
	}

	r := api.NewRouter(api.Dependencies{
		Client:     backend.NewClient(cfg),
		Sessions:   session.NewManager(cfg.CookieSecure),
		Store:      database.NewActivityStore(db),
		Hub:        hub,
		Summarizer: summarizer,
		PageSize:   cfg.PageSize,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(r, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
