package cli

import (
	"darkitchen/internal/config"
	"darkitchen/internal/infra/db"
	"darkitchen/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "darkitchen",
		Short:         "Dark kitchen order backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	load := func() (config.Config, *logrus.Logger, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
	}

	cmd.AddCommand(newServeCmd(load))
	cmd.AddCommand(newMigrateCmd(load))
	cmd.AddCommand(newSeedMenuCmd(load))
	cmd.AddCommand(newIssueTokenCmd(load))
	return cmd
}

// 設定とロガーを読む（サブコマンド共通）
type loader func() (config.Config, *logrus.Logger, error)

func connect(cfg config.Config, log *logrus.Logger) (*gorm.DB, func(), error) {
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gormDB, closeFn, nil
}

func Execute() error {
	return newRootCmd().Execute()
}
