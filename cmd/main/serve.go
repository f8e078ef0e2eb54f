package main

import (
	"fmt"

	"poe2/pickit/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("Starting pickit generator...")

		// Initialize container with all dependencies
		app, err := container.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		if err := app.Run(cmd.Context()); err != nil {
			return fmt.Errorf("server exited with error: %w", err)
		}

		log.Info("Server stopped")
		return nil
	},
}
