package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vault-sync/core/vault"
	"vault-sync/core/vault/memvault"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testRoot = "/srv/state"

var (
	t1 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
)

// writeTestFile creates a file below testRoot with the given mtime.
func writeTestFile(t *testing.T, fs afero.Fs, rel string, content []byte, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(testRoot, rel)
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, afero.WriteFile(fs, path, content, 0o600))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
	return path
}

func readTestFile(t *testing.T, fs afero.Fs, rel string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(testRoot, rel))
	require.NoError(t, err)
	return string(data)
}

func newTestEngine(t *testing.T, opts Options) (*Engine, afero.Fs, *memvault.Vault) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o700))
	v := memvault.New()
	v.SetClock(func() time.Time { return t2 })
	realms := []Realm{{Name: "state", Path: testRoot}}
	return NewEngine(realms, v, fs, nil, opts), fs, v
}

func runSync(t *testing.T, e *Engine) *Result {
	t.Helper()
	result, err := e.SyncFolderAndVault(context.Background(), "state", testRoot)
	require.NoError(t, err)
	return result
}

// TestSync_PushNewFile covers a file that is only present locally.
func TestSync_PushNewFile(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/b.txt", []byte("hello"), t1)

	result := runSync(t, e)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"state:a"}, result.CollectionsCreated)

	item, ok := v.Item("state:a/b.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", item.Notes)
	assert.Equal(t, "state:a", item.Collection)
	assert.Equal(t, []string{"state:a"}, v.CollectionNames())

	// Local file untouched
	assert.Equal(t, "hello", readTestFile(t, fs, "a/b.txt"))
	info, err := fs.Stat(filepath.Join(testRoot, "a/b.txt"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(t1))
}

// TestSync_VaultNewerOverwritesFile covers differing content with a newer vault item.
func TestSync_VaultNewerOverwritesFile(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/b.txt", []byte("hello"), t1)
	v.Put(vault.Item{Name: "state:a/b.txt", Notes: "world", RevisionDate: t2})
	v.PutCollection("state:a")

	result := runSync(t, e)
	require.Len(t, result.Plan.Actions, 1)
	assert.Equal(t, ActionOverwriteFile, result.Plan.Actions[0].Type)
	assert.Equal(t, ToFile, result.Plan.Actions[0].Proposal)

	assert.Equal(t, "world", readTestFile(t, fs, "a/b.txt"))
	info, err := fs.Stat(filepath.Join(testRoot, "a/b.txt"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(t2))

	item, _ := v.Item("state:a/b.txt")
	assert.Equal(t, "world", item.Notes)
}

// TestSync_FileNewerOverwritesVault covers differing content with a newer file.
func TestSync_FileNewerOverwritesVault(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/b.txt", []byte("hello"), t2)
	v.Put(vault.Item{Name: "state:a/b.txt", Notes: "world", RevisionDate: t1})

	result := runSync(t, e)
	require.Len(t, result.Plan.Actions, 1)
	assert.Equal(t, ActionOverwriteVault, result.Plan.Actions[0].Type)

	item, _ := v.Item("state:a/b.txt")
	assert.Equal(t, "hello", item.Notes)
	assert.Equal(t, "hello", readTestFile(t, fs, "a/b.txt"))
}

// TestSync_InvalidUTF8Skipped covers a binary file next to a regular one.
func TestSync_InvalidUTF8Skipped(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/bad.bin", []byte{0xff, 0xfe, 0x00, 0x41}, t1)
	writeTestFile(t, fs, "a/good.txt", []byte("ok"), t1)

	result := runSync(t, e)
	assert.Equal(t, 1, result.Plan.Summary.Unreadable)
	assert.Equal(t, 1, result.Applied)

	_, ok := v.Item("state:a/bad.bin")
	assert.False(t, ok)
	_, ok = v.Item("state:a/good.txt")
	assert.True(t, ok)

	// Bytes untouched
	data, err := afero.ReadFile(fs, filepath.Join(testRoot, "a/bad.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x00, 0x41}, data)
}

func TestSync_WindowsLineBreaksSkipped(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "crlf.txt", []byte("a\r\nb\r\n"), t1)

	result := runSync(t, e)
	require.Len(t, result.Plan.Actions, 1)
	assert.Equal(t, ActionSkip, result.Plan.Actions[0].Type)
	assert.Contains(t, result.Plan.Actions[0].Reason, "line breaks")
	_, ok := v.Item("state:crlf.txt")
	assert.False(t, ok)
}

func TestSync_Idempotent(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/local.txt", []byte("local"), t1)
	writeTestFile(t, fs, "bin/blob", []byte{0xc3, 0x28}, t1)
	v.Put(vault.Item{Name: "state:b/remote.txt", Notes: "remote", RevisionDate: t2})
	v.PutCollection("state:b")

	first := runSync(t, e)
	assert.Equal(t, 2, first.Applied)

	second := runSync(t, e)
	assert.Equal(t, 0, second.Plan.Summary.Mutations)
	assert.Equal(t, 0, second.Applied)
	assert.Equal(t, 2, second.Plan.Summary.Unchanged)
	assert.Equal(t, 1, second.Plan.Summary.Unreadable)
	assert.Empty(t, second.CollectionsCreated)
	assert.Empty(t, second.CollectionsDeleted)
}

func TestSync_CreateFileSetsRevisionTime(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	v.Put(vault.Item{Name: "state:deep/er/secret.sls", Notes: "key: value\n", RevisionDate: t1})

	result := runSync(t, e)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, "key: value\n", readTestFile(t, fs, "deep/er/secret.sls"))

	info, err := fs.Stat(filepath.Join(testRoot, "deep/er/secret.sls"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(t1))
}

func TestSync_CollectionLifecycle(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "x/one", []byte("1"), t1)
	v.Put(vault.Item{Name: "state:x/one", Notes: "1", RevisionDate: t1})
	v.Put(vault.Item{Name: "state:y/two", Notes: "2", RevisionDate: t1})
	v.PutCollection("state:x")
	v.PutCollection("state:y")
	v.PutCollection("state:stale")
	v.PutCollection("pillar:other")

	// Delete the vault-only item instead of creating the file
	require.NoError(t, e.RegisterHook(HookOnlyVault, func(Direction, ItemInfo) Direction { return ToVault }))

	result := runSync(t, e)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, []string{"state:stale", "state:y"}, result.CollectionsDeleted)
	assert.Equal(t, []string{"pillar:other", "state:x"}, v.CollectionNames())

	_, ok := v.Item("state:y/two")
	assert.False(t, ok)
}

func TestSync_SkipPreservesState(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{})
	writeTestFile(t, fs, "a/b.txt", []byte("hello"), t1)

	calls := 0
	require.NoError(t, e.RegisterHook(HookOnlyFile, func(proposal Direction, info ItemInfo) Direction {
		calls++
		assert.Equal(t, ToVault, proposal)
		assert.Equal(t, "state:a/b.txt", info.ItemID)
		assert.True(t, info.HasFile)
		assert.False(t, info.HasItem)
		assert.Equal(t, int64(5), info.FileSize)
		return Skip
	}))

	result := runSync(t, e)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 1, result.Plan.Summary.Skipped)
	_, ok := v.Item("state:a/b.txt")
	assert.False(t, ok)
	assert.Empty(t, v.CollectionNames())

	plan, err := e.Plan(context.Background(), "state", testRoot)
	require.NoError(t, err)
	assert.Equal(t, RelationFileOnly, plan.Actions[0].Relation)
}

func TestSync_AutoDeleteLocallyRemovesEmptyParents(t *testing.T) {
	e, fs, _ := newTestEngine(t, Options{AutoDeleteLocally: true})
	require.NoError(t, e.RegisterHook(HookOnlyFile, func(Direction, ItemInfo) Direction {
		t.Fatal("hook must not be called with AutoDeleteLocally")
		return Skip
	}))
	writeTestFile(t, fs, "a/b/c.txt", []byte("gone"), t1)
	writeTestFile(t, fs, "keep/d.txt", []byte{0xff}, t1)

	result := runSync(t, e)
	assert.Equal(t, 1, result.Applied)

	exists, err := afero.Exists(fs, filepath.Join(testRoot, "a"))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = afero.DirExists(fs, testRoot)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, filepath.Join(testRoot, "keep/d.txt"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSync_AutoUpdateLocallyPrefersVault(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{AutoUpdateLocally: true})
	writeTestFile(t, fs, "a.txt", []byte("newer file"), t2)
	v.Put(vault.Item{Name: "state:a.txt", Notes: "older vault", RevisionDate: t1})

	result := runSync(t, e)
	require.Len(t, result.Plan.Actions, 1)
	assert.Equal(t, ActionOverwriteFile, result.Plan.Actions[0].Type)
	assert.Equal(t, ToVault, result.Plan.Actions[0].Proposal)
	assert.Equal(t, "older vault", readTestFile(t, fs, "a.txt"))
}

func TestSync_DryRun(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{DryRun: true})
	writeTestFile(t, fs, "a/b.txt", []byte("hello"), t1)

	result := runSync(t, e)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Plan.Summary.Mutations)
	_, ok := v.Item("state:a/b.txt")
	assert.False(t, ok)
	assert.Empty(t, v.CollectionNames())
}

func TestSync_MissingRootIsConfigurationError(t *testing.T) {
	e, _, _ := newTestEngine(t, Options{})
	_, err := e.SyncFolderAndVault(context.Background(), "state", "/does/not/exist")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestEngine_RegisterHookUnknownKind(t *testing.T) {
	e, _, _ := newTestEngine(t, Options{})
	err := e.RegisterHook("sometimes", func(p Direction, _ ItemInfo) Direction { return p })
	assert.ErrorIs(t, err, ErrUnknownHook)
}

func TestSyncAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/state", 0o700))
	require.NoError(t, fs.MkdirAll("/srv/pillar/users", 0o700))
	require.NoError(t, afero.WriteFile(fs, "/srv/pillar/users/admin.sls", []byte("admin: true\n"), 0o600))
	v := memvault.New()
	v.Put(vault.Item{Name: "state:top.sls", Notes: "base: {}\n", RevisionDate: t1})

	t.Run("SyncsEveryRealm", func(t *testing.T) {
		e := NewEngine([]Realm{
			{Name: "pillar", Path: "/srv/pillar"},
			{Name: "state", Path: "/srv/state"},
		}, v, fs, nil, Options{})

		results, err := e.SyncAll(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "pillar", results[0].Plan.Realm)
		assert.Equal(t, "state", results[1].Plan.Realm)

		_, ok := v.Item("pillar:users/admin.sls")
		assert.True(t, ok)
		exists, _ := afero.Exists(fs, "/srv/state/top.sls")
		assert.True(t, exists)
	})

	t.Run("InvalidRealmAbortsBeforeChanges", func(t *testing.T) {
		e := NewEngine([]Realm{
			{Name: "pillar", Path: "/srv/pillar"},
			{Name: "bad:realm", Path: "/srv/bad"},
		}, v, fs, nil, Options{})

		results, err := e.SyncAll(context.Background())
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Nil(t, results)
	})

	t.Run("DuplicateRealm", func(t *testing.T) {
		e := NewEngine([]Realm{
			{Name: "pillar", Path: "/srv/pillar"},
			{Name: "pillar", Path: "/srv/other"},
		}, v, fs, nil, Options{})

		_, err := e.SyncAll(context.Background())
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("FailingRealmDoesNotStopOthers", func(t *testing.T) {
		e := NewEngine([]Realm{
			{Name: "missing", Path: "/srv/missing"},
			{Name: "state", Path: "/srv/state"},
		}, v, fs, nil, Options{})

		results, err := e.SyncAll(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "realm missing")
		assert.True(t, errors.Is(err, ErrConfiguration))
		require.Len(t, results, 1)
		assert.Equal(t, "state", results[0].Plan.Realm)
	})
}

// TestSync_NonCanonicalVaultNamesSkipped covers vault names whose relative
// path would leave the realm root or alias another file.
func TestSync_NonCanonicalVaultNamesSkipped(t *testing.T) {
	tests := []struct {
		name   string
		itemID string
	}{
		{"ParentEscape", "state:../pillar/top.sls"},
		{"Absolute", "state:/etc/motd"},
		{"Empty", "state:"},
		{"DotSegment", "state:a/./b.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fs, v := newTestEngine(t, Options{AutoCreateLocally: true})
			require.NoError(t, fs.MkdirAll("/srv/pillar", 0o700))
			v.Put(vault.Item{Name: tt.itemID, Notes: "payload", RevisionDate: t1})

			result := runSync(t, e)
			require.Len(t, result.Plan.Actions, 1)
			assert.Equal(t, ActionSkip, result.Plan.Actions[0].Type)
			assert.NotEmpty(t, result.Plan.Actions[0].Reason)
			assert.Equal(t, 0, result.Applied)

			exists, err := afero.Exists(fs, "/srv/pillar/top.sls")
			require.NoError(t, err)
			assert.False(t, exists)
			exists, err = afero.Exists(fs, "/etc/motd")
			require.NoError(t, err)
			assert.False(t, exists)

			_, ok := v.Item(tt.itemID)
			assert.True(t, ok, "skipped item stays in the vault")
		})
	}
}

// TestSync_AliasedVaultNameConverges covers "a//b" next to a local "a/b".
func TestSync_AliasedVaultNameConverges(t *testing.T) {
	e, fs, v := newTestEngine(t, Options{AutoCreateLocally: true})
	writeTestFile(t, fs, "a/b", []byte("local"), t1)
	v.Put(vault.Item{Name: "state:a//b", Notes: "other", RevisionDate: t2})

	first := runSync(t, e)
	assert.Equal(t, 1, first.Applied)
	assert.Equal(t, "local", readTestFile(t, fs, "a/b"))

	second := runSync(t, e)
	assert.Equal(t, 0, second.Plan.Summary.Mutations)
	assert.Equal(t, 0, second.Applied)
	assert.Equal(t, "local", readTestFile(t, fs, "a/b"))

	item, ok := v.Item("state:a/b")
	require.True(t, ok)
	assert.Equal(t, "local", item.Notes)
}

// TestSync_LargeFileWarnsAndPushes covers a note above the vault size hint.
func TestSync_LargeFileWarnsAndPushes(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o700))
	v := memvault.New()
	e := NewEngine([]Realm{{Name: "state", Path: testRoot}}, v, fs, zap.New(core), Options{})

	big := strings.Repeat("x", 8000)
	writeTestFile(t, fs, "big.txt", []byte(big), t1)

	result := runSync(t, e)
	assert.Equal(t, 1, result.Applied)

	warnings := logs.FilterMessage("Encoded size probably exceeds the vault maximum").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(10668), warnings[0].ContextMap()["encoded_size"])

	item, ok := v.Item("state:big.txt")
	require.True(t, ok)
	assert.Equal(t, big, item.Notes)
}

// TestSync_SymlinkedFilesAreSynced covers links inside a realm on the OS filesystem.
func TestSync_SymlinkedFilesAreSynced(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "real.txt"), []byte("linked"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(outside, "dir"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "dir", "inner.txt"), []byte("no"), 0o600))

	if err := os.Symlink(filepath.Join(outside, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing"), filepath.Join(root, "dangling")))

	v := memvault.New()
	e := NewEngine([]Realm{{Name: "state", Path: root}}, v, afero.NewOsFs(), nil, Options{})

	result, err := e.SyncFolderAndVault(context.Background(), "state", root)
	require.NoError(t, err)
	require.Len(t, result.Plan.Actions, 1)
	assert.Equal(t, "state:link.txt", result.Plan.Actions[0].ItemID)
	assert.Equal(t, ActionCreateVault, result.Plan.Actions[0].Type)

	item, ok := v.Item("state:link.txt")
	require.True(t, ok)
	assert.Equal(t, "linked", item.Notes)
}
