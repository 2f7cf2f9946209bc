package cmd

import (
	"fmt"
	"io"

	"vault-sync/core/reconcile"

	"github.com/fatih/color"
)

// actionMark returns the symbol shown in front of an action.
func actionMark(a reconcile.Action) string {
	switch a.Type {
	case reconcile.ActionCreateVault, reconcile.ActionOverwriteVault:
		return color.CyanString(">")
	case reconcile.ActionCreateFile, reconcile.ActionOverwriteFile:
		return color.CyanString("<")
	case reconcile.ActionDeleteFile, reconcile.ActionDeleteVault:
		return color.RedString("-")
	case reconcile.ActionSkip:
		return color.YellowString("/")
	default:
		return " "
	}
}

// printPlan writes one line per action that is not a no-op.
func printPlan(w io.Writer, plan *reconcile.Plan) {
	s := plan.Summary
	fmt.Fprintf(w, "%s %s %s\n", color.New(color.Bold).Sprint(plan.Realm), color.HiBlackString("→"), plan.Root)

	for _, a := range plan.Actions {
		if a.Type == reconcile.ActionNone {
			continue
		}
		line := fmt.Sprintf("  %s %-15s %s", actionMark(a), a.Type, a.ItemID)
		if a.Reason != "" && a.Type == reconcile.ActionSkip {
			line += color.HiBlackString(" (%s)", a.Reason)
		}
		if a.Error != "" {
			line += " " + color.RedString("✗ %s", a.Error)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "  %d items: %d file only, %d vault only, %d differing, %d unchanged, %d unreadable\n",
		s.TotalItems, s.FileOnly, s.VaultOnly, s.Differing, s.Unchanged, s.Unreadable)
}

// printResult writes the plan and the outcome of a pass.
func printResult(w io.Writer, r *reconcile.Result) {
	printPlan(w, r.Plan)
	if r.DryRun {
		fmt.Fprintf(w, "  %s dry run, %d changes planned\n", color.YellowString("!"), r.Plan.Summary.Mutations)
		return
	}

	mark := color.GreenString("✓")
	if r.Failed > 0 {
		mark = color.RedString("✗")
	}
	fmt.Fprintf(w, "  %s %d applied, %d failed, %d skipped\n", mark, r.Applied, r.Failed, r.Plan.Summary.Skipped)
	for _, c := range r.CollectionsCreated {
		fmt.Fprintf(w, "  %s collection %s created\n", color.CyanString("+"), c)
	}
	for _, c := range r.CollectionsDeleted {
		fmt.Fprintf(w, "  %s collection %s deleted\n", color.RedString("-"), c)
	}
}
