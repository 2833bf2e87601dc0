package cli

import (
	"fmt"
	"os"

	infraRepo "darkitchen/internal/infra/repository"
	"darkitchen/internal/infra/seed"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newSeedMenuCmd(load loader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-menu",
		Short: "Load categories and dishes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			//DBに触る前にファイルを検証
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open menu file: %w", err)
			}
			defer f.Close()

			menu, err := seed.Load(f)
			if err != nil {
				return err
			}

			cfg, log, err := load()
			if err != nil {
				return err
			}
			gormDB, closeDB, err := connect(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			var res seed.Result
			err = gormDB.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
				res, err = seed.Apply(cmd.Context(), infraRepo.NewDishGormRepository(tx), menu)
				return err
			})
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"categories": res.Categories,
				"dishes":     res.Dishes,
			}).Info("menu seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "menu.yaml", "menu YAML file")
	return cmd
}
