package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/verbivisa/internal/domain"
)

const timeLayout = time.RFC3339

// LoadScores returns every score record of a list keyed by score key.
func (db *DB) LoadScores(ctx context.Context, listID string) (map[string]domain.ScoreRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT score_key, correct, total, percentage, achieved_at, duration_seconds
		FROM scores WHERE list_id = ?
	`, listID)
	if err != nil {
		return nil, persistErr("load scores", listID, err)
	}
	defer rows.Close()

	records := make(map[string]domain.ScoreRecord)
	for rows.Next() {
		var (
			key      string
			rec      domain.ScoreRecord
			achieved string
			duration sql.NullInt64
		)
		if err := rows.Scan(&key, &rec.Correct, &rec.Total, &rec.Percentage, &achieved, &duration); err != nil {
			return nil, persistErr("load scores", listID, fmt.Errorf("failed to scan score row: %w", err))
		}
		rec.Timestamp, err = time.Parse(timeLayout, achieved)
		if err != nil {
			return nil, persistErr("load scores", listID, fmt.Errorf("bad timestamp for %s: %w", key, err))
		}
		if duration.Valid {
			d := int(duration.Int64)
			rec.DurationSeconds = &d
		}
		records[key] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("load scores", listID, err)
	}
	return records, nil
}

// ReplaceScores overwrites the whole score store of a list in one transaction.
func (db *DB) ReplaceScores(ctx context.Context, listID string, records map[string]domain.ScoreRecord) error {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE list_id = ?`, listID); err != nil {
			return fmt.Errorf("failed to clear scores: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO scores (list_id, score_key, correct, total, percentage, achieved_at, duration_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare score insert: %w", err)
		}
		defer stmt.Close()

		for key, rec := range records {
			var duration sql.NullInt64
			if rec.DurationSeconds != nil {
				duration = sql.NullInt64{Int64: int64(*rec.DurationSeconds), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, listID, key, rec.Correct, rec.Total, rec.Percentage,
				rec.Timestamp.UTC().Format(timeLayout), duration); err != nil {
				return fmt.Errorf("failed to insert score %s: %w", key, err)
			}
		}
		return nil
	})
	return persistErr("replace scores", listID, err)
}

// DeleteScores removes the given keys from a list's score store.
func (db *DB) DeleteScores(ctx context.Context, listID string, keys []string) error {
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM scores
				WHERE list_id = ? AND score_key = ?
			`, listID, key); err != nil {
				return fmt.Errorf("failed to delete score %s: %w", key, err)
			}
		}
		return nil
	})
	return persistErr("delete scores", listID, err)
}

// PurgeScores drops every score of a list.
func (db *DB) PurgeScores(ctx context.Context, listID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM scores WHERE list_id = ?`, listID)
	return persistErr("purge scores", listID, err)
}
