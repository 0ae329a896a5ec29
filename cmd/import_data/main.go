package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"chemworld/internal/catalog"
	"chemworld/internal/config"
	"chemworld/internal/db"
	applog "chemworld/internal/log"
)

func main() {
	kind := flag.String("type", "ingredients", "record type to import: ingredients or molecules")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import_data [-type ingredients|molecules] <file.json>")
		os.Exit(2)
	}

	if err := run(*kind, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(kind, path string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applog.SetLevel(cfg.Logging.Level)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	var summary catalog.ImportSummary
	switch kind {
	case "ingredients":
		summary, err = importIngredients(ctx, database, data)
	case "molecules":
		summary, err = importMolecules(ctx, database, data)
	default:
		return fmt.Errorf("unknown record type %q", kind)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d %s from %s (created %d, updated %d, skipped %d, entries dropped %d)\n",
		summary.Imported(), kind, filepath.Base(path),
		summary.Created, summary.Updated, len(summary.Skipped), summary.EntriesDropped)
	for _, skipped := range summary.Skipped {
		fmt.Fprintf(os.Stdout, "  skipped %s: %s\n", skipped.WorldID, skipped.Reason)
	}
	return nil
}

func importIngredients(ctx context.Context, database *gorm.DB, data []byte) (catalog.ImportSummary, error) {
	items, err := catalog.ParseIngredientPayload(data)
	if err != nil {
		return catalog.ImportSummary{}, err
	}
	return catalog.ImportIngredients(ctx, database, items)
}

func importMolecules(ctx context.Context, database *gorm.DB, data []byte) (catalog.ImportSummary, error) {
	items, err := catalog.ParseMoleculePayload(data)
	if err != nil {
		return catalog.ImportSummary{}, err
	}
	return catalog.ImportMolecules(ctx, database, items)
}
