package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/gateway/ws"
	handler "github.com/Wyydra/voicebridge/internal/adapter/driving/http"
	"github.com/Wyydra/voicebridge/internal/app"
	"github.com/Wyydra/voicebridge/internal/config"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	app.SetupLogger(cfg)

	a := app.New(cfg)
	hub := ws.NewHub()

	h := handler.NewHandler(a.Skill, a.Proxy, a.Google, a.KV, hub)

	go hub.Run()

	r := h.NewRouter()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	hub.Stop()
	if err := a.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}
	log.Info().Msg("Server exited")
}
