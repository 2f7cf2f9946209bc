// Package naming maps between local file paths and vault identifiers.
//
// Every item of a realm is stored in the vault under the flat name
// "<realm>:<relative path>", and grouped into a collection named
// "<realm>:<top-level folder>". The functions in this package are pure and
// perform no I/O.
//
// # Identifiers
//
//	naming.ItemID("state", "a/b.txt")        // "state:a/b.txt"
//	naming.RelativePath("state:a/b.txt")     // "a/b.txt"
//	naming.CollectionID("state", "a/b.txt")  // "state:a"
//
// The relative path is kept verbatim, so identifiers round-trip exactly.
// Realm names must not contain the ':' delimiter; ValidateRealm reports such
// names with ErrConfiguration.
package naming
