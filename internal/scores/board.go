package scores

import (
	"context"
	"log/slog"
	"sort"

	"github.com/conorfennell/verbivisa/internal/domain"
)

// Store persists score records per list identifier.
type Store interface {
	LoadScores(ctx context.Context, listID string) (map[string]domain.ScoreRecord, error)
	ReplaceScores(ctx context.Context, listID string, records map[string]domain.ScoreRecord) error
	DeleteScores(ctx context.Context, listID string, keys []string) error
	PurgeScores(ctx context.Context, listID string) error
}

// Board is the best-score leaderboard of one list.
type Board struct {
	store  Store
	listID string
}

// New returns the board of listID.
func New(store Store, listID string) *Board {
	return &Board{store: store, listID: listID}
}

// ListID returns the list the board is scoped to.
func (b *Board) ListID() string { return b.listID }

// Load returns every record of the list, orphaned ones included.
func (b *Board) Load(ctx context.Context) (map[string]domain.ScoreRecord, error) {
	return b.store.LoadScores(ctx, b.listID)
}

// Save overwrites the whole store of the list.
func (b *Board) Save(ctx context.Context, records map[string]domain.ScoreRecord) error {
	return b.store.ReplaceScores(ctx, b.listID, records)
}

// Submission reports the outcome of SubmitIfBetter.
type Submission struct {
	Saved    bool
	Previous *domain.ScoreRecord
}

// SubmitIfBetter stores candidate under key when there is no record yet or
// candidate has strictly more correct answers. Ties keep the earlier record.
func (b *Board) SubmitIfBetter(ctx context.Context, key Key, candidate domain.ScoreRecord) (Submission, error) {
	records, err := b.Load(ctx)
	if err != nil {
		return Submission{}, err
	}

	k := key.String()
	var sub Submission
	if prev, ok := records[k]; ok {
		sub.Previous = &prev
		if candidate.Correct <= prev.Correct {
			slog.Debug("score not better than record", "list", b.listID, "key", k,
				"correct", candidate.Correct, "record", prev.Correct)
			return sub, nil
		}
	}

	records[k] = candidate
	if err := b.Save(ctx, records); err != nil {
		return Submission{}, err
	}
	sub.Saved = true
	slog.Info("score record saved", "list", b.listID, "key", k, "correct", candidate.Correct, "total", candidate.Total)
	return sub, nil
}

// ResetOne removes the record of key.
func (b *Board) ResetOne(ctx context.Context, key Key) error {
	return b.store.DeleteScores(ctx, b.listID, []string{key.String()})
}

// ResetAll removes the records Visible would show for validPackageIDs.
// Records of other packages, and unparseable keys, are left alone. A nil set
// removes every record.
func (b *Board) ResetAll(ctx context.Context, validPackageIDs map[string]bool) (int, error) {
	records, err := b.Load(ctx)
	if err != nil {
		return 0, err
	}
	entries := Visible(records, validPackageIDs)
	doomed := make([]string, 0, len(entries))
	for _, e := range entries {
		doomed = append(doomed, e.Key)
	}
	if len(doomed) == 0 {
		return 0, nil
	}
	if err := b.store.DeleteScores(ctx, b.listID, doomed); err != nil {
		return 0, err
	}
	slog.Info("score records reset", "list", b.listID, "count", len(doomed))
	return len(doomed), nil
}

// Purge drops the list's whole score store, orphaned records included.
func (b *Board) Purge(ctx context.Context) error {
	return b.store.PurgeScores(ctx, b.listID)
}

// Entry is one displayed leaderboard row.
type Entry struct {
	Key    string
	Record domain.ScoreRecord
}

// Visible returns the records whose package id is currently valid, sorted by key.
// With a nil set, as when the list has no package map yet, every record is shown.
func Visible(records map[string]domain.ScoreRecord, validPackageIDs map[string]bool) []Entry {
	entries := make([]Entry, 0, len(records))
	for k, rec := range records {
		if validPackageIDs != nil {
			key, err := ParseKey(k)
			if err != nil || !validPackageIDs[key.PackageID] {
				continue
			}
		}
		entries = append(entries, Entry{Key: k, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
