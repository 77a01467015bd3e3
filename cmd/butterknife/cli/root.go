// Package cli implements the butterknife command-line front end: a thin
// cobra wrapper around internal/app's Broker that exposes the six
// inbound tool operations (§6) as subcommands. Grounded on the teacher's
// cmd/moat/cli root command (package-level rootCmd, PersistentPreRunE
// for cross-cutting setup, Execute/init).
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/majorcontext/butterknife/internal/app"
	"github.com/majorcontext/butterknife/internal/config"
	"github.com/majorcontext/butterknife/internal/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
	dataDir string
	budget  int64
	broker  *app.Broker
)

var rootCmd = &cobra.Command{
	Use:   "butterknife",
	Short: "A local credential broker for calling paid third-party APIs",
	Long: `butterknife stores API credentials once, injects them into outbound
calls, enforces a spending budget, and mints a tamper-evident receipt for
every call it makes — so nothing holding a credential ever has to see it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadBroker()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if budget > 0 {
			cfg.Budget = budget
		}

		debugDir := filepath.Join(cfg.DataDir, "debug")
		if err := log.Init(log.Options{
			Verbose:       verbose,
			JSONFormat:    jsonOut,
			DebugDir:      debugDir,
			RetentionDays: 14,
		}); err != nil {
			log.Warn("log init failed", "error", err)
		}

		b, err := app.Open(cfg)
		if err != nil {
			return fmt.Errorf("opening broker at %s: %w", cfg.DataDir, err)
		}
		broker = b
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the broker's data directory (default $HOME/.butterknife)")
	rootCmd.PersistentFlags().Int64Var(&budget, "budget", 0, "set the total budget in microdollars on first run")
}
