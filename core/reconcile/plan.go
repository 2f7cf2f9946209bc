package reconcile

import (
	"vault-sync/core/naming"
)

// BuildPlan turns a snapshot into an ordered list of actions.
// It performs no I/O; the decider is the only collaborator.
func BuildPlan(snap *Snapshot, opts Options, decider Decider) *Plan {
	if decider == nil {
		decider = AutoDecider{}
	}

	plan := &Plan{
		Realm:    snap.Realm,
		Root:     snap.Root,
		Actions:  make([]Action, 0, len(snap.Entries)),
		snapshot: snap,
	}
	plan.Summary.TotalItems = len(snap.Entries)

	for _, entry := range snap.Entries {
		action := planEntry(entry, snap.Root, opts, decider)
		plan.Actions = append(plan.Actions, action)
		countAction(&plan.Summary, entry, action)
	}

	return plan
}

func planEntry(entry Entry, root string, opts Options, decider Decider) Action {
	action := Action{
		ItemID:     entry.ItemID,
		Path:       naming.LocalPath(root, entry.ItemID),
		Relation:   entry.Relation,
		Collection: naming.CollectionForItem(entry.ItemID),
		Type:       ActionSkip,
		Direction:  Skip,
	}

	if entry.Problem != "" {
		action.Reason = entry.Problem
		return action
	}

	switch entry.Relation {
	case RelationFileOnly:
		action.Proposal = ToVault
		if opts.AutoDeleteLocally {
			action.Direction = ToFile
		} else {
			action.Direction = decider.OnFileOnly(action.Proposal, entry.Info())
		}
		switch action.Direction {
		case ToVault:
			action.Type = ActionCreateVault
			action.Content = entry.File.Content
		case ToFile:
			action.Type = ActionDeleteFile
		}

	case RelationVaultOnly:
		action.Proposal = ToFile
		if opts.AutoCreateLocally {
			action.Direction = ToFile
		} else {
			action.Direction = decider.OnVaultOnly(action.Proposal, entry.Info())
		}
		switch action.Direction {
		case ToFile:
			action.Type = ActionCreateFile
			action.Content = entry.Item.Content
			action.ModTime = entry.Item.ModTime
		case ToVault:
			action.Type = ActionDeleteVault
			action.Handle = entry.Item.ID
		}

	case RelationBoth:
		if entry.File.Content == entry.Item.Content {
			action.Type = ActionNone
			action.Reason = "content is equal"
			return action
		}
		// The side modified last wins.
		action.Proposal = ToVault
		if entry.File.ModTime.Before(entry.Item.ModTime) {
			action.Proposal = ToFile
		}
		if opts.AutoUpdateLocally {
			action.Direction = ToFile
		} else {
			action.Direction = decider.OnConflict(action.Proposal, entry.Info())
		}
		switch action.Direction {
		case ToFile:
			action.Type = ActionOverwriteFile
			action.Content = entry.Item.Content
			action.ModTime = entry.Item.ModTime
		case ToVault:
			action.Type = ActionOverwriteVault
			action.Content = entry.File.Content
			action.Handle = entry.Item.ID
		}
	}

	if action.Type == ActionSkip {
		action.Direction = Skip
		action.Reason = "skipped by decision"
	}
	return action
}

func countAction(s *PlanSummary, entry Entry, action Action) {
	switch {
	case entry.Problem != "":
		s.Unreadable++
	case entry.Relation == RelationFileOnly:
		s.FileOnly++
	case entry.Relation == RelationVaultOnly:
		s.VaultOnly++
	case action.Type == ActionNone:
		s.Unchanged++
	default:
		s.Differing++
	}

	if action.Type.Mutates() {
		s.Mutations++
	} else if action.Type == ActionSkip && entry.Problem == "" {
		s.Skipped++
	}
}
