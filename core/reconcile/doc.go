// Package reconcile synchronizes the files of a realm directory with the
// items of a credential vault.
//
// A realm pairs a local directory with the vault items named "<realm>:...".
// Every pass is recomputed from scratch and runs in three phases:
//
// 1. Snapshot: walk the local directory (set F), list the vault items of the
// realm (set V), and load content, size and modification time of every item
// in F ∪ V. Files that are not clean UTF-8 text with Unix line breaks are
// marked unreadable and will be skipped.
//
// 2. Plan: classify every item as file-only, vault-only or present on both
// sides, compute the default direction and ask the Decider. The result is an
// ordered list of Actions, sorted by item id.
//
// 3. Apply: execute every action once, create collections lazily before the
// first item that needs them, and delete collections that no item of the
// final vault set maps to.
//
// # Directions
//
// The default directions follow the vault-first policy of the tool:
//
//   - file only: push the file to the vault (AutoDeleteLocally deletes the file instead)
//   - vault only: create the file (AutoCreateLocally skips the question)
//   - differing: the side modified last wins (AutoUpdateLocally always writes the file)
//
// # Failures
//
// Per-item failures (unreadable files, I/O errors, vault errors) are logged
// and recorded on the action; the pass continues and the next pass retries.
// Configuration errors (invalid realm names, missing paths) are returned.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(realms, v, afero.NewOsFs(), logger, reconcile.Options{})
//	engine.SetDecider(prompt.New(os.Stdin, os.Stdout))
//	results, err := engine.SyncAll(ctx)
package reconcile
