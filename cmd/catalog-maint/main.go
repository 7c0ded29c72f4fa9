package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"media-catalog/internal/catalog"
)

const defaultDatabaseDir = "/database"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	databaseDir := os.Getenv("DATABASE_DIR")
	if databaseDir == "" {
		databaseDir = defaultDatabaseDir
	}
	dbPath := filepath.Join(databaseDir, "catalog.db")

	store, err := catalog.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open catalog: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure DATABASE_DIR is set correctly (current: %s)\n", databaseDir)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close catalog: %v\n", err)
		}
	}()

	switch command {
	case "stats":
		showStats(ctx, store)
	case "tags":
		listTags(ctx, store)
	case "vacuum":
		runVacuum(store)
	case "migrate":
		confirmMigrate(ctx, store)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: catalog-maint <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  stats    Show catalog row counts and recorded metadata")
	fmt.Fprintln(os.Stderr, "  tags     List all tags with their file counts")
	fmt.Fprintln(os.Stderr, "  vacuum   Reclaim free space in the database file")
	fmt.Fprintln(os.Stderr, "  migrate  Apply pending schema migrations and re-seed reserved tags")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  DATABASE_DIR   Catalog database directory (default: /database)")
}

func showStats(ctx context.Context, store *catalog.Catalog) {
	stats := store.GetStats()
	fmt.Printf("Files: %d\n", stats.TotalFiles)
	fmt.Printf("Tags:  %d\n", stats.TotalTags)

	if root, err := store.RootFolder(ctx); err == nil && root != "" {
		fmt.Printf("Media root: %s\n", root)
	}
	if count, ok, err := store.LastFileCount(ctx); err == nil && ok {
		fmt.Printf("Last reconciled file count: %d\n", count)
	}
}

func listTags(ctx context.Context, store *catalog.Catalog) {
	tags, err := store.AllTags(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list tags: %v\n", err)
		os.Exit(1)
	}

	for _, tag := range tags {
		marker := ""
		if tag.Reserved {
			marker = " (reserved)"
		}
		fmt.Printf("%-30s %d%s\n", tag.Name, tag.ItemCount, marker)
	}
}

// confirmMigrate reports the schema state. Opening the catalog already
// applies pending migrations and re-seeds the reserved tags, so by the
// time this runs the work is done; this command makes it explicit.
func confirmMigrate(ctx context.Context, store *catalog.Catalog) {
	tags, err := store.AllTags(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: schema check failed: %v\n", err)
		os.Exit(1)
	}
	reserved := 0
	for _, tag := range tags {
		if tag.Reserved {
			reserved++
		}
	}
	fmt.Println("Schema is up to date.")
	fmt.Printf("Reserved tags present: %d\n", reserved)
}

func runVacuum(store *catalog.Catalog) {
	fmt.Println("Vacuuming database...")
	if err := store.Vacuum(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: vacuum failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}

// sanitizeCommand strips anything outside [a-zA-Z0-9_-] before echoing
// user input back to the terminal.
func sanitizeCommand(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 32 {
		out = out[:32]
	}
	return out
}
