package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDecider answers with fixed directions and records every question.
type recordingDecider struct {
	fileOnly  Direction
	vaultOnly Direction
	conflict  Direction
	asked     []string
	proposals map[string]Direction
}

func newRecordingDecider(fileOnly, vaultOnly, conflict Direction) *recordingDecider {
	return &recordingDecider{
		fileOnly:  fileOnly,
		vaultOnly: vaultOnly,
		conflict:  conflict,
		proposals: make(map[string]Direction),
	}
}

func (d *recordingDecider) record(proposal Direction, info ItemInfo) {
	d.asked = append(d.asked, info.ItemID)
	d.proposals[info.ItemID] = proposal
}

func (d *recordingDecider) OnFileOnly(proposal Direction, info ItemInfo) Direction {
	d.record(proposal, info)
	return d.fileOnly
}

func (d *recordingDecider) OnVaultOnly(proposal Direction, info ItemInfo) Direction {
	d.record(proposal, info)
	return d.vaultOnly
}

func (d *recordingDecider) OnConflict(proposal Direction, info ItemInfo) Direction {
	d.record(proposal, info)
	return d.conflict
}

func testSnapshot(entries ...Entry) *Snapshot {
	snap := &Snapshot{
		Realm: "state",
		Root:  testRoot,
		Files: map[string]struct{}{},
		Items: map[string]struct{}{},
	}
	for _, e := range entries {
		if e.File != nil || e.Relation != RelationVaultOnly {
			snap.Files[e.ItemID] = struct{}{}
		}
		if e.Item != nil || e.Relation != RelationFileOnly {
			snap.Items[e.ItemID] = struct{}{}
		}
	}
	snap.Entries = entries
	return snap
}

func fileOnly(id, content string) Entry {
	return Entry{ItemID: id, Relation: RelationFileOnly, File: &FileState{Content: content, ModTime: t1}}
}

func vaultOnly(id, content string) Entry {
	return Entry{ItemID: id, Relation: RelationVaultOnly, Item: &VaultState{ID: "h-" + id, Content: content, ModTime: t2}}
}

func TestBuildPlan_Directions(t *testing.T) {
	tests := []struct {
		name      string
		entry     Entry
		decider   *recordingDecider
		opts      Options
		expect    ActionType
		proposal  Direction
		askedOnce bool
	}{
		{
			name:      "FileOnlyDefaultPushes",
			entry:     fileOnly("state:a/b.txt", "hello"),
			decider:   newRecordingDecider(ToVault, Skip, Skip),
			expect:    ActionCreateVault,
			proposal:  ToVault,
			askedOnce: true,
		},
		{
			name:      "FileOnlyDeleteChosen",
			entry:     fileOnly("state:a/b.txt", "hello"),
			decider:   newRecordingDecider(ToFile, Skip, Skip),
			expect:    ActionDeleteFile,
			proposal:  ToVault,
			askedOnce: true,
		},
		{
			name:     "FileOnlyAutoDelete",
			entry:    fileOnly("state:a/b.txt", "hello"),
			decider:  newRecordingDecider(Skip, Skip, Skip),
			opts:     Options{AutoDeleteLocally: true},
			expect:   ActionDeleteFile,
			proposal: ToVault,
		},
		{
			name:      "VaultOnlyDefaultCreatesFile",
			entry:     vaultOnly("state:a/b.txt", "world"),
			decider:   newRecordingDecider(Skip, ToFile, Skip),
			expect:    ActionCreateFile,
			proposal:  ToFile,
			askedOnce: true,
		},
		{
			name:      "VaultOnlyDeleteChosen",
			entry:     vaultOnly("state:a/b.txt", "world"),
			decider:   newRecordingDecider(Skip, ToVault, Skip),
			expect:    ActionDeleteVault,
			proposal:  ToFile,
			askedOnce: true,
		},
		{
			name:     "VaultOnlyAutoCreate",
			entry:    vaultOnly("state:a/b.txt", "world"),
			decider:  newRecordingDecider(Skip, Skip, Skip),
			opts:     Options{AutoCreateLocally: true},
			expect:   ActionCreateFile,
			proposal: ToFile,
		},
		{
			name:      "VaultOnlySkipped",
			entry:     vaultOnly("state:a/b.txt", "world"),
			decider:   newRecordingDecider(Skip, Skip, Skip),
			expect:    ActionSkip,
			proposal:  ToFile,
			askedOnce: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildPlan(testSnapshot(tt.entry), tt.opts, tt.decider)
			require.Len(t, plan.Actions, 1)
			action := plan.Actions[0]
			assert.Equal(t, tt.expect, action.Type)
			assert.Equal(t, tt.proposal, action.Proposal)
			assert.Equal(t, "state:a", action.Collection)
			if tt.askedOnce {
				assert.Equal(t, []string{tt.entry.ItemID}, tt.decider.asked)
			} else {
				assert.Empty(t, tt.decider.asked)
			}
		})
	}
}

func TestBuildPlan_ConflictProposal(t *testing.T) {
	newer := Entry{
		ItemID:   "state:a.txt",
		Relation: RelationBoth,
		File:     &FileState{Content: "hello", ModTime: t1},
		Item:     &VaultState{ID: "h1", Content: "world", ModTime: t2},
	}
	older := Entry{
		ItemID:   "state:b.txt",
		Relation: RelationBoth,
		File:     &FileState{Content: "hello", ModTime: t2},
		Item:     &VaultState{ID: "h2", Content: "world", ModTime: t1},
	}

	t.Run("NoDecisionUsesProposal", func(t *testing.T) {
		plan := BuildPlan(testSnapshot(newer, older), Options{}, AutoDecider{})
		require.Len(t, plan.Actions, 2)

		assert.Equal(t, ActionOverwriteFile, plan.Actions[0].Type)
		assert.Equal(t, "world", plan.Actions[0].Content)
		assert.Equal(t, t2, plan.Actions[0].ModTime)

		assert.Equal(t, ActionOverwriteVault, plan.Actions[1].Type)
		assert.Equal(t, "hello", plan.Actions[1].Content)
		assert.Equal(t, "h2", plan.Actions[1].Handle)

		assert.Equal(t, 2, plan.Summary.Differing)
		assert.Equal(t, 2, plan.Summary.Mutations)
	})

	t.Run("DeciderSeesProposal", func(t *testing.T) {
		d := newRecordingDecider(Skip, Skip, Skip)
		plan := BuildPlan(testSnapshot(newer, older), Options{}, d)
		assert.Equal(t, ToFile, d.proposals["state:a.txt"])
		assert.Equal(t, ToVault, d.proposals["state:b.txt"])
		assert.Equal(t, 2, plan.Summary.Skipped)
		assert.Equal(t, 0, plan.Summary.Mutations)
	})

	t.Run("AutoUpdateForcesFile", func(t *testing.T) {
		d := newRecordingDecider(Skip, Skip, ToVault)
		plan := BuildPlan(testSnapshot(older), Options{AutoUpdateLocally: true}, d)
		assert.Equal(t, ActionOverwriteFile, plan.Actions[0].Type)
		assert.Empty(t, d.asked)
	})
}

func TestBuildPlan_EqualContentAndProblems(t *testing.T) {
	equal := Entry{
		ItemID:   "state:same.txt",
		Relation: RelationBoth,
		File:     &FileState{Content: "same", ModTime: t1},
		Item:     &VaultState{Content: "same", ModTime: t2},
	}
	broken := Entry{
		ItemID:   "state:broken.bin",
		Relation: RelationFileOnly,
		Problem:  "binary characters in file",
	}

	d := newRecordingDecider(ToVault, ToFile, ToFile)
	plan := BuildPlan(testSnapshot(broken, equal), Options{}, d)

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, ActionSkip, plan.Actions[0].Type)
	assert.Equal(t, "binary characters in file", plan.Actions[0].Reason)
	assert.Equal(t, ActionNone, plan.Actions[1].Type)
	assert.Empty(t, d.asked)

	assert.Equal(t, PlanSummary{TotalItems: 2, Unchanged: 1, Unreadable: 1}, plan.Summary)
}

func TestBuildPlan_NilDeciderUsesDefaults(t *testing.T) {
	plan := BuildPlan(testSnapshot(fileOnly("state:x/y", "v"), vaultOnly("state:z", "w")), Options{}, nil)
	require.Len(t, plan.Actions, 2)
	assert.Equal(t, ActionCreateVault, plan.Actions[0].Type)
	assert.Equal(t, ActionCreateFile, plan.Actions[1].Type)
}

func TestHooks_Set(t *testing.T) {
	var h Hooks
	assert.Equal(t, ToFile, h.OnConflict(ToFile, ItemInfo{}))

	require.NoError(t, h.Set(HookUpdate, func(Direction, ItemInfo) Direction { return Skip }))
	assert.Equal(t, Skip, h.OnConflict(ToFile, ItemInfo{}))
	assert.Equal(t, ToVault, h.OnFileOnly(ToVault, ItemInfo{}))

	assert.ErrorIs(t, h.Set("other", nil), ErrUnknownHook)
}

func TestDirection_Text(t *testing.T) {
	for _, d := range []Direction{Skip, ToFile, ToVault} {
		text, err := d.MarshalText()
		require.NoError(t, err)

		var back Direction
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, d, back)
	}

	var d Direction
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
}
