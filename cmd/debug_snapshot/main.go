package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"vault-sync/core/config"
	"vault-sync/core/reconcile"
	"vault-sync/core/vault/backend"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type entry struct {
	ItemID    string             `json:"item"`
	Relation  reconcile.Relation `json:"relation"`
	FileSize  int64              `json:"file_size,omitempty"`
	FileTime  string             `json:"file_mtime,omitempty"`
	ItemSize  int                `json:"item_size,omitempty"`
	ItemTime  string             `json:"item_mtime,omitempty"`
	Different bool               `json:"different"`
	Problem   string             `json:"problem,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_snapshot <realm>")
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	realms, err := cfg.SelectRealms(os.Args[1:2])
	if err != nil {
		log.Fatal(err)
	}
	realm := realms[0]

	ctx := context.Background()
	v, closeVault, err := backend.Open(ctx, cfg, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer closeVault()

	engine := reconcile.NewEngine(realms, v, afero.NewOsFs(), zap.NewNop(), cfg.Sync.Options(true))
	snap, err := engine.BuildSnapshot(ctx, realm.Name, realm.Path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== %s (%s) ===\n", realm.Name, realm.Path)
	fmt.Printf("Local files: %d\n", len(snap.Files))
	fmt.Printf("Vault items: %d\n", len(snap.Items))
	if snap.Collections == nil {
		fmt.Println("Collections: not fetched (no one-sided items)")
	} else {
		fmt.Printf("Collections: %d\n", len(snap.Collections))
	}

	out := make([]entry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		row := entry{ItemID: e.ItemID, Relation: e.Relation, Problem: e.Problem}
		if e.File != nil {
			row.FileSize = e.File.Size
			row.FileTime = e.File.ModTime.Format("2006-01-02T15:04:05Z")
		}
		if e.Item != nil {
			row.ItemSize = e.Item.Size
			row.ItemTime = e.Item.ModTime.Format("2006-01-02T15:04:05Z")
		}
		if e.File != nil && e.Item != nil {
			row.Different = e.File.Content != e.Item.Content
		}
		if e.Problem != "" {
			fmt.Printf("  ⚠️  %s: %s\n", e.ItemID, e.Problem)
		}
		out = append(out, row)
	}

	// Save detailed output
	data, _ := json.MarshalIndent(out, "", "  ")
	if err := os.WriteFile("debug_snapshot.json", data, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nDebug complete. Check debug_snapshot.json for details.")
}
