package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vault-sync/core/reconcile"
	"vault-sync/feature/prompt"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun  bool
	syncYes     bool
	syncIfStale bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [realm...]",
	Short: "Synchronize realms with the vault",
	Long: `Synchronizes every configured realm, or only the named ones.

Undecided items are asked on the terminal when sync.interactive is set and
stdin is a terminal; otherwise they follow the default directions:
file only -> vault, vault only -> file, differing -> newer side.

Use --yes to never prompt and --dry-run to print the plan only.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
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

	if syncIfStale {
		st, err := a.stamp()
		if err != nil {
			return err
		}
		fresh, err := st.UpdatedWithin(a.cfg.Sync.MinInterval)
		if err != nil {
			return err
		}
		if fresh {
			a.logger.Info("Last sync is recent, nothing to do",
				zap.String("stamp", st.Path()),
				zap.Duration("min_interval", a.cfg.Sync.MinInterval),
			)
			return nil
		}
	}

	engine := reconcile.NewEngine(realms, a.vault, afero.NewOsFs(), a.logger, a.cfg.Sync.Options(syncDryRun))
	engine.SetDecider(chooseDecider(a.logger, a.cfg.Sync.Interactive && !syncYes && !syncDryRun))

	a.logger.Info("Starting sync",
		zap.Int("realms", len(realms)),
		zap.Stringer("options", engine.Options()),
	)

	results, err := engine.SyncAll(ctx)
	for _, r := range results {
		printResult(cmd.OutOrStdout(), r)
	}
	if err != nil {
		return err
	}

	if !syncDryRun {
		if err := a.touchStamp(); err != nil {
			a.logger.Warn("Failed to update stamp file", zap.Error(err))
		}
	}
	return nil
}

// chooseDecider returns the terminal prompt when asking is possible.
func chooseDecider(l *zap.Logger, interactive bool) reconcile.Decider {
	if !interactive {
		return reconcile.AutoDecider{}
	}
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		l.Warn("Stdin is not a terminal, using default directions")
		return reconcile.AutoDecider{}
	}
	return prompt.New(os.Stdin, os.Stdout)
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the plan without applying it")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "Never prompt, use the default directions")
	syncCmd.Flags().BoolVar(&syncIfStale, "if-stale", false, "Only sync when the last sync is older than sync.min_interval")
	RootCmd.AddCommand(syncCmd)
}
