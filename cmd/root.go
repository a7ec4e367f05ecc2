package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/config"
)

var cfg *config.Config

// modeAnnotation selects which config checks a command needs.
const modeAnnotation = "config-mode"

var rootCmd = &cobra.Command{
	Use:   "advisor-match",
	Short: "Financial advisor matching service",
	Long:  "Serves the advisor profile form, consumer profiles and swipe-style matching over HTTP, and manages the catalog, accounts and schema from the command line.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		mode := cmd.Annotations[modeAnnotation]
		if mode == "" {
			mode = "cli"
		}
		if err := cfg.Validate(mode); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
