package reconcile

import (
	"errors"
	"fmt"
)

// ErrUnknownHook is returned by RegisterHook for an unsupported hook kind.
var ErrUnknownHook = errors.New("unknown hook")

// Decider resolves the direction of items whose synchronization is ambiguous.
// Each method receives the proposed default and returns the chosen direction;
// Skip leaves both sides untouched.
type Decider interface {
	// OnFileOnly is asked for items present only as local files.
	// ToVault pushes the file, ToFile deletes it.
	OnFileOnly(proposal Direction, info ItemInfo) Direction

	// OnVaultOnly is asked for items present only in the vault.
	// ToFile creates the file, ToVault deletes the vault item.
	OnVaultOnly(proposal Direction, info ItemInfo) Direction

	// OnConflict is asked for items whose content differs on both sides.
	OnConflict(proposal Direction, info ItemInfo) Direction
}

// AutoDecider accepts every proposal.
type AutoDecider struct{}

func (AutoDecider) OnFileOnly(proposal Direction, _ ItemInfo) Direction  { return proposal }
func (AutoDecider) OnVaultOnly(proposal Direction, _ ItemInfo) Direction { return proposal }
func (AutoDecider) OnConflict(proposal Direction, _ ItemInfo) Direction  { return proposal }

// HookKind names a hook slot.
type HookKind string

const (
	HookOnlyFile  HookKind = "onlyfile"
	HookOnlyVault HookKind = "onlyvault"
	HookUpdate    HookKind = "update"
)

// HookFunc decides a single item. It returns the proposal to accept the default.
type HookFunc func(proposal Direction, info ItemInfo) Direction

// Hooks is a Decider built from optional callbacks.
// A nil slot accepts the proposal.
type Hooks struct {
	OnlyFile  HookFunc
	OnlyVault HookFunc
	Update    HookFunc
}

// Set installs fn in the slot named by kind.
func (h *Hooks) Set(kind HookKind, fn HookFunc) error {
	switch kind {
	case HookOnlyFile:
		h.OnlyFile = fn
	case HookOnlyVault:
		h.OnlyVault = fn
	case HookUpdate:
		h.Update = fn
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHook, kind)
	}
	return nil
}

func (h *Hooks) OnFileOnly(proposal Direction, info ItemInfo) Direction {
	return call(h.OnlyFile, proposal, info)
}

func (h *Hooks) OnVaultOnly(proposal Direction, info ItemInfo) Direction {
	return call(h.OnlyVault, proposal, info)
}

func (h *Hooks) OnConflict(proposal Direction, info ItemInfo) Direction {
	return call(h.Update, proposal, info)
}

func call(fn HookFunc, proposal Direction, info ItemInfo) Direction {
	if fn == nil {
		return proposal
	}
	return fn(proposal, info)
}
