package cli

import (
	"crypto/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"darkitchen/internal/config"
	"darkitchen/internal/infra/classifier"
	"darkitchen/internal/infra/db"
	"darkitchen/internal/server"
	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

func newServeCmd(load loader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.CredentialScheme == config.CredentialSchemePlain {
				log.Warn("CREDENTIAL_SCHEME=plain stores passwords as-is; use bcrypt outside of legacy data")
			}

			gormDB, closeDB, err := connect(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if migrate {
				if err := db.Migrate(gormDB); err != nil {
					return err
				}
			}

			app, err := server.NewApp(cfg, log, server.Deps{
				DB:         gormDB,
				Classifier: classifier.NewClient(cfg.ClassifierURL, 15*time.Second),
				Clock:      auth.SystemClock{},
				Entropy:    rand.Reader,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, server.New(cfg, log, app), ":"+cfg.Port, log)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}
