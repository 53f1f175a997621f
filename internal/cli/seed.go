package cli

import (
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prash240303/Globetrotter/internal/config"
	pgstore "github.com/prash240303/Globetrotter/internal/infra/postgres"
)

// NewSeedCmd loads the sample location catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the location catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			loader := pgstore.NewLocationLoader(pool)
			if err := loader.Seed(cmd.Context(), sampleLocations()); err != nil {
				return err
			}
			log.Info().Int("locations", len(sampleLocations())).Msg("catalog seeded")
			return nil
		},
	}
}
