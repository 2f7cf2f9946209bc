package cmd

import (
	"fmt"

	"vault-sync/core/config"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// realmsCmd represents the realms command
var realmsCmd = &cobra.Command{
	Use:   "realms",
	Short: "List the configured realms",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Options{Dir: configDir, Files: configFiles})
		if err != nil {
			return err
		}
		list, err := cfg.Realms()
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		for _, r := range list {
			mark := color.GreenString("✓")
			if ok, _ := afero.DirExists(fs, r.Path); !ok {
				mark = color.RedString("✗")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", mark, r.Name, r.Path)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(realmsCmd)
}
