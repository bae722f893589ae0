package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/attestra/go-anoncred-infra/cmd/db"
	"github.com/attestra/go-anoncred-infra/cmd/keygen"
	"github.com/attestra/go-anoncred-infra/cmd/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd := &cobra.Command{
		Use:   "anoncred",
		Short: "Anonymous credential engine built on ring signatures",
	}

	rootCmd.AddCommand(server.New())
	rootCmd.AddCommand(keygen.New())
	rootCmd.AddCommand(db.New())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
