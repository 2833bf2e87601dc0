package cli

import (
	"darkitchen/internal/infra/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			gormDB, closeDB, err := connect(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			log.Info("migration finished")
			return nil
		},
	}
}
