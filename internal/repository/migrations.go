package repository

import (
	"context"
	"embed"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.up.sql
var migrationFS embed.FS

// RunMigrations applies the embedded *.up.sql files in lexical order.
// Statements are written to be re-runnable; anything that still trips an
// "already exists" error is logged and skipped.
func RunMigrations(pool *pgxpool.Pool) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		log.Printf("Running migration: %s", name)
		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		_, err = pool.Exec(context.Background(), string(content))
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("Migration %s already run or partially run: %v", name, err)
				continue
			}
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	return nil
}
