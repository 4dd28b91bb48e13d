// Package schema owns the chargeflow store layout: five tables, their
// referential and lifecycle constraints, and the secondary indexes the
// reporting queries lean on.
package schema

import (
	"context"
	"errors"
	"fmt"

	"chargeflow/db"
)

// ErrStoreExists is returned by Initialize when chargeflow tables are
// already present and the caller did not ask for a rebuild.
var ErrStoreExists = errors.New("schema: store already exists")

// Options controls Initialize.
type Options struct {
	// Force drops any existing chargeflow tables first. Destroys data.
	Force bool
}

// Initialize creates the five tables and their indexes. The store must
// not exist yet unless opts.Force is set; with Force the existing
// tables are dropped and recreated.
func Initialize(ctx context.Context, q db.Querier, opts Options) error {
	exists, err := Exists(ctx, q)
	if err != nil {
		return err
	}
	if exists {
		if !opts.Force {
			return ErrStoreExists
		}
		if err := drop(ctx, q); err != nil {
			return err
		}
	}

	for _, ddl := range createTables {
		if _, err := q.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("schema: create table: %w", err)
		}
	}
	for _, ddl := range createIndexes {
		if _, err := q.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("schema: create index: %w", err)
		}
	}

	return nil
}

// Exists reports whether any chargeflow table is present. Writers and
// readers use it to fail fast on a missing store instead of surfacing a
// raw undefined-table error mid-operation.
func Exists(ctx context.Context, q db.Querier) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = ANY($1)
        )`

	var exists bool
	if err := q.QueryRow(ctx, query, Tables).Scan(&exists); err != nil {
		return false, fmt.Errorf("schema: probe store: %w", err)
	}
	return exists, nil
}

func drop(ctx context.Context, q db.Querier) error {
	// Reverse dependency order; CASCADE covers indexes and constraints.
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", Tables[i])); err != nil {
			return fmt.Errorf("schema: drop %s: %w", Tables[i], err)
		}
	}
	return nil
}
