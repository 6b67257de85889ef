package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datasciencecampus/geosnap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geosnap",
	Short: "Fetch, enrich, and visualize snapped geographic points",
	Long:  "Fetches point features from paginated feature services, derives connecting lines and great-circle distances for snapped coordinates, and renders interactive maps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
