package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quizcoach/internal/infra/postgres"
	"quizcoach/internal/seed"
)

// NewSeedCmd migrates and loads the built-in catalogue into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in categories and questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()

			inserted, err := postgres.NewSeeder(db, log).Seed(cmd.Context(), seed.Categories(), seed.Questions())
			if err != nil {
				return err
			}
			log.Info("seeded", zap.Int("questions", inserted))
			return nil
		},
	}
}
