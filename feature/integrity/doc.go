// Package integrity checks the vault side of the realms.
//
// A sync pass keeps collections consistent only when it fetched them, which
// happens when some item exists on one side only. Collections can therefore
// drift when items are edited in the vault directly. The checks here compare
// every realm's collections with the collections its items require.
//
// # Checks Provided
//
//   - Missing: collections required by an item but absent from the vault.
//   - Orphaned: collections no item of the realm maps to.
//
// # HTTP Endpoints
//
//   - GET /integrity : checks every realm (supports ?fix=true).
//   - GET /integrity/:realm : checks one realm (supports ?fix=true).
package integrity
