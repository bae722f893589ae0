package db

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/attestra/go-anoncred-infra/internal/anoncred/storage"
	"github.com/attestra/go-anoncred-infra/internal/config"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management tools",
	}

	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the engine schema to the configured Postgres database",
		Run: func(cmd *cobra.Command, args []string) {
			if err := migrate(); err != nil {
				log.Fatal().Err(err).Msg("Migration failed")
			}
			log.Info().Msg("Schema applied")
		},
	}
}

func migrate() error {
	cfg := config.DefaultServiceConfigFromEnv()

	conn, err := sql.Open("postgres", cfg.Database.ConnectionString)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		return err
	}

	_, err = conn.Exec(storage.Schema)
	return err
}
