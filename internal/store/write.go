package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shanehandley/servo/internal/ir"
)

// PutContractSet upserts every contract in the set inside one
// transaction. An interface re-emitted by a later run replaces its
// previous row; interfaces absent from this run are left untouched, so
// incremental recompiles of a subset of units keep the rest of the
// store intact.
func (s *Store) PutContractSet(ctx context.Context, set *ir.ContractSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put contracts: begin: %w", err)
	}
	defer tx.Rollback()

	for i := range set.Interfaces {
		c := &set.Interfaces[i]
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("put contracts: marshal %q: %w", c.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contracts (name, hash, run_id, body)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				hash = excluded.hash,
				run_id = excluded.run_id,
				body = excluded.body
		`, c.Name, c.Hash, set.RunID, string(body))
		if err != nil {
			return fmt.Errorf("put contracts: insert %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put contracts: commit: %w", err)
	}
	return nil
}
