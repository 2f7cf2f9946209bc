package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"vault-sync/core/reconcile"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var planJSON bool

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan [realm...]",
	Short: "Show what a sync would change",
	Long: `Builds the sync plan of every configured realm, or only the named ones,
using the default directions. Nothing is written to disk or to the vault.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		realms, err := a.cfg.SelectRealms(args)
		if err != nil {
			return err
		}

		engine := reconcile.NewEngine(realms, a.vault, afero.NewOsFs(), a.logger, a.cfg.Sync.Options(true))

		var (
			plans []*reconcile.Plan
			errs  []error
		)
		for _, r := range realms {
			plan, err := engine.Plan(ctx, r.Name, r.Path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			plans = append(plans, plan)
		}

		if planJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(plans); err != nil {
				return err
			}
		} else {
			for _, p := range plans {
				printPlan(cmd.OutOrStdout(), p)
			}
		}
		return errors.Join(errs...)
	},
}

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plans as JSON")
	RootCmd.AddCommand(planCmd)
}
