package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conorfennell/verbivisa/internal/domain"
)

// LoadPackageMap returns the persisted package map of a list.
// The boolean is false when nothing has been persisted for listID.
func (db *DB) LoadPackageMap(ctx context.Context, listID string) (domain.PackageMap, bool, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT package_id, word_index
		FROM package_maps WHERE list_id = ?
		ORDER BY ordinal, position
	`, listID)
	if err != nil {
		return domain.PackageMap{}, false, persistErr("load package map", listID, err)
	}
	defer rows.Close()

	var m domain.PackageMap
	for rows.Next() {
		var (
			id  string
			idx int
		)
		if err := rows.Scan(&id, &idx); err != nil {
			return domain.PackageMap{}, false, persistErr("load package map", listID, fmt.Errorf("failed to scan package row: %w", err))
		}
		if n := len(m.Packages); n == 0 || m.Packages[n-1].ID != id {
			m.Packages = append(m.Packages, domain.Package{ID: id})
		}
		last := &m.Packages[len(m.Packages)-1]
		last.Indices = append(last.Indices, idx)
	}
	if err := rows.Err(); err != nil {
		return domain.PackageMap{}, false, persistErr("load package map", listID, err)
	}
	return m, !m.Empty(), nil
}

// ReplacePackageMap overwrites the whole package map of a list in one transaction.
func (db *DB) ReplacePackageMap(ctx context.Context, listID string, m domain.PackageMap) error {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM package_maps WHERE list_id = ?`, listID); err != nil {
			return fmt.Errorf("failed to clear package map: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO package_maps (list_id, package_id, ordinal, position, word_index)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare package insert: %w", err)
		}
		defer stmt.Close()

		for ordinal, p := range m.Packages {
			for position, idx := range p.Indices {
				if _, err := stmt.ExecContext(ctx, listID, p.ID, ordinal, position, idx); err != nil {
					return fmt.Errorf("failed to insert index %d of %s: %w", idx, p.ID, err)
				}
			}
		}
		return nil
	})
	return persistErr("replace package map", listID, err)
}
