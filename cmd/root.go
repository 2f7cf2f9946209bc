package cmd

import (
	"fmt"
	"os"

	"vault-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// configDir holds the .env and config.yaml files.
	configDir string
	// configFiles are merged after the default configuration files.
	configFiles []string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vault-sync",
	Short: "Synchronize local directories with a credential vault",
	Long: `vault-sync mirrors text files between realm directories and vault items.

Every realm maps a local directory to the vault items named "<realm>:<path>".
Items present on one side only and items whose content differs are resolved
per item, either automatically or by asking on the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "dir", ".", "Directory holding .env and config.yaml")
	RootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "Additional config files, applied in order")
}
