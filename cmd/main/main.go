package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"poe2/pickit/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pickit",
	Short: "Generate Path of Exile 2 pickit filters from live market prices.",
	Long: `pickit fetches current prices from poe.ninja and poe2scout, converts them
to Exalted Orbs and writes a pickit rule file with every item worth more
than the chosen minimum, followed by any selected static rules.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		config.ConfigureLogging(loaded.Log)
		cfg = loaded
		log.Debug("Configuration loaded successfully")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd, generateCmd, categoriesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}
