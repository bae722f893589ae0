package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/router"
	"github.com/attestra/go-anoncred-infra/internal/config"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the credential engine HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}

	return cmd
}

func runServer() {
	cfg := config.DefaultServiceConfigFromEnv()

	s, err := api.InitServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil {
			log.Info().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		for _, err := range errs {
			log.Error().Err(err).Msg("Error during shutdown")
		}
		os.Exit(1)
	}
}
