package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Separator delimits the realm from the rest of an identifier.
const Separator = ":"

// ErrConfiguration marks identifiers that cannot be built unambiguously.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError describes an invalid realm definition.
type ConfigurationError struct {
	Realm  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("realm %q: %s", e.Realm, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ValidateRealm checks that a realm name can be used as an identifier prefix.
func ValidateRealm(realm string) error {
	if realm == "" {
		return &ConfigurationError{Realm: realm, Reason: "name is empty"}
	}
	if strings.Contains(realm, Separator) {
		return &ConfigurationError{Realm: realm, Reason: fmt.Sprintf("name must not contain %q", Separator)}
	}
	return nil
}

// ItemID returns the vault item name for a file of the realm.
func ItemID(realm, relPath string) string {
	return realm + Separator + relPath
}

// Prefix returns the common prefix of all item and collection names of a realm.
func Prefix(realm string) string {
	return realm + Separator
}

// Realm returns the realm part of an item identifier.
func Realm(itemID string) string {
	realm, _, _ := strings.Cut(itemID, Separator)
	return realm
}

// RelativePath returns everything after the first separator, unchanged.
func RelativePath(itemID string) string {
	_, rel, _ := strings.Cut(itemID, Separator)
	return rel
}

// CanonicalPath reports whether relPath maps to exactly one file below a
// realm root: non-empty, relative, already clean and not escaping the root.
// Separators may be "/" or the platform separator.
func CanonicalPath(relPath string) bool {
	rel := filepath.FromSlash(relPath)
	if rel == "" || rel == "." || filepath.IsAbs(rel) || strings.HasPrefix(relPath, "/") {
		return false
	}
	if filepath.Clean(rel) != rel {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// LocalPath returns the file path of an item below the realm root.
func LocalPath(root, itemID string) string {
	return filepath.Join(root, RelativePath(itemID))
}

// TopLevel returns the first component of a relative path.
func TopLevel(relPath string) string {
	if i := strings.IndexFunc(relPath, isPathSeparator); i >= 0 {
		return relPath[:i]
	}
	return relPath
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// CollectionID returns the collection that holds the file of the realm.
func CollectionID(realm, relPath string) string {
	return realm + Separator + TopLevel(relPath)
}

// CollectionForItem returns the collection that holds the given item.
func CollectionForItem(itemID string) string {
	realm, rel, _ := strings.Cut(itemID, Separator)
	return CollectionID(realm, rel)
}

// CollectionIDs returns the set of collections needed by the given items.
func CollectionIDs(itemIDs map[string]struct{}) map[string]struct{} {
	names := make(map[string]struct{}, len(itemIDs))
	for id := range itemIDs {
		names[CollectionForItem(id)] = struct{}{}
	}
	return names
}

// Sorted returns the keys of a set in lexicographic order.
func Sorted(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
