package reconcile

import (
	"fmt"
	"time"

	"vault-sync/core/naming"
)

// ErrConfiguration is returned for invalid realm definitions.
var ErrConfiguration = naming.ErrConfiguration

// ConfigurationError describes an invalid realm definition.
type ConfigurationError = naming.ConfigurationError

// Realm pairs a realm name with its local directory.
type Realm struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Validate checks that the realm can be synchronized.
func (r Realm) Validate() error {
	if err := naming.ValidateRealm(r.Name); err != nil {
		return err
	}
	if r.Path == "" {
		return &ConfigurationError{Realm: r.Name, Reason: "no local path configured"}
	}
	return nil
}

// Direction is the side whose content becomes authoritative for an item.
type Direction int

const (
	// Skip leaves both sides untouched.
	Skip Direction = iota
	// ToFile mirrors the vault state to the local file.
	ToFile
	// ToVault mirrors the local file state to the vault.
	ToVault
)

func (d Direction) String() string {
	switch d {
	case ToFile:
		return "to_file"
	case ToVault:
		return "to_vault"
	default:
		return "skip"
	}
}

// MarshalText renders the direction for JSON output.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "to_file":
		*d = ToFile
	case "to_vault":
		*d = ToVault
	case "skip":
		*d = Skip
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Relation is the presence of an item on both sides.
type Relation string

const (
	RelationFileOnly  Relation = "file_only"
	RelationVaultOnly Relation = "vault_only"
	RelationBoth      Relation = "both"
)

// ActionType is the mutation planned for an item.
type ActionType string

const (
	// ActionNone means both sides already agree.
	ActionNone ActionType = "none"
	// ActionSkip leaves the item untouched (decider choice or unreadable file).
	ActionSkip ActionType = "skip"
	// ActionCreateVault pushes a file-only item to the vault.
	ActionCreateVault ActionType = "create_vault"
	// ActionDeleteFile removes a file-only item locally.
	ActionDeleteFile ActionType = "delete_file"
	// ActionCreateFile writes a vault-only item to disk.
	ActionCreateFile ActionType = "create_file"
	// ActionDeleteVault removes a vault-only item from the vault.
	ActionDeleteVault ActionType = "delete_vault"
	// ActionOverwriteFile replaces the file content with the vault content.
	ActionOverwriteFile ActionType = "overwrite_file"
	// ActionOverwriteVault replaces the vault content with the file content.
	ActionOverwriteVault ActionType = "overwrite_vault"
)

// Mutates reports whether the action changes either side.
func (t ActionType) Mutates() bool {
	return t != ActionNone && t != ActionSkip
}

// FileState is the local side of an item.
type FileState struct {
	Path    string
	Size    int64
	ModTime time.Time
	Content string
}

// VaultState is the vault side of an item.
type VaultState struct {
	ID      string
	Size    int
	ModTime time.Time
	Content string
}

// Entry is one item of a snapshot.
type Entry struct {
	ItemID   string
	Relation Relation
	File     *FileState
	Item     *VaultState
	// Problem is set when the item cannot be synchronized in this pass.
	Problem string
}

// Info returns the metadata handed to deciders.
func (e Entry) Info() ItemInfo {
	info := ItemInfo{ItemID: e.ItemID}
	if e.File != nil {
		info.HasFile = true
		info.FileSize = e.File.Size
		info.FileModTime = e.File.ModTime
	}
	if e.Item != nil {
		info.HasItem = true
		info.ItemSize = e.Item.Size
		info.ItemModTime = e.Item.ModTime
	}
	return info
}

// ItemInfo describes an item to a Decider. Times are UTC.
type ItemInfo struct {
	ItemID      string
	HasFile     bool
	FileSize    int64
	FileModTime time.Time
	HasItem     bool
	ItemSize    int
	ItemModTime time.Time
}

// Action is a planned mutation for a single item.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// ItemID is the vault item name.
	ItemID string `json:"item"`

	// Path is the local file path of the item.
	Path string `json:"path"`

	// Relation is the presence of the item when the plan was built.
	Relation Relation `json:"relation"`

	// Proposal is the default direction offered to the decider.
	Proposal Direction `json:"proposal"`

	// Direction is the resolved direction.
	Direction Direction `json:"direction"`

	// Reason explains skips and no-ops.
	Reason string `json:"reason,omitempty"`

	// Collection is the collection the item belongs to.
	Collection string `json:"collection"`

	// Handle is the vault handle for updates and deletes.
	Handle string `json:"-"`

	// Content is the payload written by the action.
	Content string `json:"-"`

	// ModTime is the modification time set on written files.
	ModTime time.Time `json:"-"`

	// Applied is true once the mutation succeeded.
	Applied bool `json:"applied"`

	// Error holds the failure message of a failed mutation.
	Error string `json:"error,omitempty"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the size of F ∪ V.
	TotalItems int `json:"total_items"`

	// FileOnly counts items present only as local files.
	FileOnly int `json:"file_only"`

	// VaultOnly counts items present only in the vault.
	VaultOnly int `json:"vault_only"`

	// Differing counts items present on both sides with different content.
	Differing int `json:"differing"`

	// Unchanged counts items with equal content on both sides.
	Unchanged int `json:"unchanged"`

	// Unreadable counts items skipped because they could not be loaded.
	Unreadable int `json:"unreadable"`

	// Skipped counts items the decider chose to leave alone.
	Skipped int `json:"skipped"`

	// Mutations counts actions that change either side.
	Mutations int `json:"mutations"`
}

// Plan is the ordered list of actions for one realm.
type Plan struct {
	Realm   string      `json:"realm"`
	Root    string      `json:"root"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`

	snapshot *Snapshot
}

// Result is the outcome of a sync pass for one realm.
type Result struct {
	Plan *Plan `json:"plan"`

	// DryRun is true when the plan was not applied.
	DryRun bool `json:"dry_run"`

	// Applied counts mutations that succeeded.
	Applied int `json:"applied"`

	// Failed counts mutations that failed and will be retried next pass.
	Failed int `json:"failed"`

	// CollectionsCreated lists the collections created during the pass.
	CollectionsCreated []string `json:"collections_created"`

	// CollectionsDeleted lists the collections deleted during cleanup.
	CollectionsDeleted []string `json:"collections_deleted"`
}

// Options controls the automatic directions and whether plans are applied.
type Options struct {
	// AutoCreateLocally creates files for vault-only items without asking.
	AutoCreateLocally bool

	// AutoUpdateLocally overwrites differing files with vault content without asking.
	AutoUpdateLocally bool

	// AutoDeleteLocally deletes file-only items without asking.
	AutoDeleteLocally bool

	// DryRun builds plans without applying them.
	DryRun bool
}

func (o Options) String() string {
	return fmt.Sprintf("create=%t update=%t delete=%t dry_run=%t",
		o.AutoCreateLocally, o.AutoUpdateLocally, o.AutoDeleteLocally, o.DryRun)
}
