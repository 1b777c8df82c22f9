package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported, later files override earlier ones
	serverPort  int
	serverHost  string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "curavie",
	Short: "Health reports for migrant workers",
	Long: `CuraVie turns a worker's profile, checkups, vaccinations and clinic visits
into a plain-language PDF health report written by a language model.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfiguration,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd, reportCmd, versionCmd)
}

// loadConfiguration runs the startup sequence shared by every subcommand:
// defaults -> files -> env, then CLI flags, then the logger.
func loadConfiguration(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("curavie.toml"); err == nil {
			configFiles = append(configFiles, "curavie.toml")
		} else if _, err := os.Stat("deployments/local/curavie.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/curavie.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration %v: %w", configFiles, err)
	}

	common.ApplyFlagOverrides(config, serverPort, serverHost)

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("provider", string(config.LLM.DefaultProvider)).
		Str("model", config.LLM.Model).
		Str("log_level", config.Logging.Level).
		Msg("Resolved configuration")

	return nil
}

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	common.LoadVersionFromFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
