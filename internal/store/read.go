package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shanehandley/servo/internal/ir"
)

// ErrNotFound is returned when no stored contract matches the query.
var ErrNotFound = errors.New("store: contract not found")

// ContractInfo is one row of a store listing.
type ContractInfo struct {
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	RunID string `json:"run_id"`
}

// GetContract returns the stored contract for an interface name.
func (s *Store) GetContract(ctx context.Context, name string) (*ir.InterfaceContract, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM contracts WHERE name = ?", name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get contract %q: %w", name, err)
	}

	var c ir.InterfaceContract
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("get contract %q: decode: %w", name, err)
	}
	return &c, nil
}

// GetByHash returns the stored contract with the given content hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (*ir.InterfaceContract, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM contracts WHERE hash = ? ORDER BY name COLLATE BINARY ASC LIMIT 1", hash).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: hash %q", ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("get contract by hash: %w", err)
	}

	var c ir.InterfaceContract
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("get contract by hash: decode: %w", err)
	}
	return &c, nil
}

// ListContracts returns name, hash and run ID for every stored
// contract, ordered by name for reproducible listings.
func (s *Store) ListContracts(ctx context.Context) ([]ContractInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, hash, run_id
		FROM contracts
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	infos := []ContractInfo{}
	for rows.Next() {
		var info ContractInfo
		if err := rows.Scan(&info.Name, &info.Hash, &info.RunID); err != nil {
			return nil, fmt.Errorf("list contracts: scan: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return infos, nil
}
