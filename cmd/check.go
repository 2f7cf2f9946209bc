package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vault-sync/feature/integrity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkFix bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [realm...]",
	Short: "Check vault collections against the realm items",
	Long: `Lists collections required by vault items but missing, and collections
no item maps to. Use --fix to create and delete them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		realms, err := a.cfg.Realms()
		if err != nil {
			return err
		}

		svc := integrity.NewService(realms, a.vault, a.logger)
		reports, err := svc.Check(ctx, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		problems := 0
		for _, r := range reports {
			if r.OK() {
				fmt.Fprintf(out, "%s %-10s %d items, collections consistent\n", color.GreenString("✓"), r.Realm, r.Items)
				continue
			}
			problems += len(r.Missing) + len(r.Orphaned)
			fmt.Fprintf(out, "%s %-10s %d items\n", color.RedString("✗"), r.Realm, r.Items)
			for _, name := range r.Missing {
				fmt.Fprintf(out, "  %s missing  %s\n", color.YellowString("+"), name)
			}
			for _, name := range r.Orphaned {
				fmt.Fprintf(out, "  %s orphaned %s\n", color.YellowString("-"), name)
			}
		}

		if problems == 0 || !checkFix {
			return nil
		}

		a.logger.Info("Fixing collections", zap.Int("problems", problems))
		return svc.Fix(ctx, reports)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "Create missing and delete orphaned collections")
	RootCmd.AddCommand(checkCmd)
}
