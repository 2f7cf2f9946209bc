package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vault-sync/core/reconcile"
	"vault-sync/feature/watch"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [realm...]",
	Short: "Keep realms synchronized",
	Long: `Runs a sync pass, then re-syncs a realm whenever files under it change
and every realm every sync.watch_interval. Watch mode never prompts.`,
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

		fs := afero.NewOsFs()
		syncFn := func(ctx context.Context, realms []reconcile.Realm) error {
			engine := reconcile.NewEngine(realms, a.vault, fs, a.logger, a.cfg.Sync.Options(false))
			results, err := engine.SyncAll(ctx)
			for _, r := range results {
				if r.Plan.Summary.Mutations > 0 {
					printResult(cmd.OutOrStdout(), r)
				}
			}
			if err != nil {
				return err
			}
			return a.touchStamp()
		}

		if err := syncFn(ctx, realms); err != nil {
			a.logger.Error("Initial sync failed", zap.Error(err))
		}

		w := watch.New(realms, syncFn, a.logger, watch.Options{
			Debounce: a.cfg.Sync.WatchDebounce,
			Interval: a.cfg.Sync.WatchInterval,
		})
		return w.Run(ctx)
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
