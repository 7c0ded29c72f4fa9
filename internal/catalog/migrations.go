package catalog

import (
	"context"
	"fmt"

	"media-catalog/internal/logging"
)

// migration is one ordered schema change. IDs sort lexically and are
// recorded in the migrations table once applied.
type migration struct {
	id  string
	sql string
}

// migrationList holds every migration ever shipped, in order. Entries are
// append-only: released IDs never change.
var migrationList = []migration{
	{
		id:  "0001_files_updated_at_index",
		sql: `CREATE INDEX IF NOT EXISTS idx_files_updated_at ON files(updated_at);`,
	},
	{
		id: "0002_tags_created_at_backfill",
		sql: `UPDATE tags SET created_at = strftime('%s', 'now')
		      WHERE created_at IS NULL OR created_at = 0;`,
	},
}

// runMigrations applies every migration not yet recorded in the
// migrations table. Each migration runs in its own transaction together
// with the bookkeeping insert, so a failure leaves no half-applied step.
// Failures abort catalog startup and surface the underlying cause.
func (c *Catalog) runMigrations(ctx context.Context) error {
	applied, err := c.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, m := range migrationList {
		if applied[m.id] {
			continue
		}

		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migration %s: failed to begin transaction: %w", m.id, err)
		}

		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("migration %s: rollback failed: %v", m.id, rbErr)
			}
			return fmt.Errorf("migration %s failed: %w", m.id, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (id) VALUES (?)", m.id); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("migration %s: rollback failed: %v", m.id, rbErr)
			}
			return fmt.Errorf("migration %s: failed to record: %w", m.id, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: commit failed: %w", m.id, err)
		}

		logging.Info("Applied migration %s", m.id)
	}

	return nil
}

func (c *Catalog) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT id FROM migrations")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}
