// Package drill composes the catalog, packages, quiz and scores packages into
// the single-session workflow the CLI drives.
package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/conorfennell/verbivisa/internal/catalog"
	"github.com/conorfennell/verbivisa/internal/domain"
	"github.com/conorfennell/verbivisa/internal/packages"
	"github.com/conorfennell/verbivisa/internal/quiz"
	"github.com/conorfennell/verbivisa/internal/scores"
)

var (
	// ErrNoList is returned when an operation needs an open list.
	ErrNoList = errors.New("drill: no word list open")
	// ErrNoPackages is returned when a quiz is started before packages exist.
	ErrNoPackages = errors.New("drill: no usable package map, regenerate packages first")
	// ErrNoSession is returned when there is no live session.
	ErrNoSession = errors.New("drill: no quiz in progress")
	// ErrNotFinished is returned when recording a session that is still running.
	ErrNotFinished = errors.New("drill: quiz is not finished")
)

// Store is the persistence the desk needs.
type Store interface {
	packages.Store
	scores.Store
}

// Desk holds the active list and its single live session.
type Desk struct {
	loader      *catalog.Loader
	store       Store
	partitioner *packages.Partitioner
	engine      *quiz.Engine
	languages   domain.Languages

	source   string
	catalog  *domain.Catalog
	packages domain.PackageMap
	status   packages.Status
	board    *scores.Board
	session  *quiz.Session
}

// New returns a desk with no list open.
func New(loader *catalog.Loader, store Store, packageSize int, engine *quiz.Engine, langs domain.Languages) *Desk {
	return &Desk{
		loader:      loader,
		store:       store,
		partitioner: packages.New(store, packageSize),
		engine:      engine,
		languages:   langs,
	}
}

// Open loads sourceID and its persisted package map. Switching to another
// list discards the live session. Absent or Stale maps are reported through
// Status and are never regenerated here.
func (d *Desk) Open(ctx context.Context, sourceID string) error {
	cat, err := d.loader.Load(sourceID)
	if err != nil {
		return err
	}
	pm, status, err := d.partitioner.LoadExisting(ctx, cat)
	if err != nil {
		return err
	}

	if d.source != sourceID && d.session != nil {
		slog.Info("word list switched, discarding quiz", "from", d.source, "to", sourceID, "session", d.session.ID)
	}
	if d.source != sourceID {
		d.session = nil
	}
	d.source = sourceID
	d.catalog = cat
	d.packages = pm
	d.status = status
	d.board = scores.New(d.store, cat.ID())
	return nil
}

// Catalog returns the open catalog.
func (d *Desk) Catalog() *domain.Catalog { return d.catalog }

// Packages returns the package map and its status. A Stale map is returned for display only.
func (d *Desk) Packages() (domain.PackageMap, packages.Status) { return d.packages, d.status }

// PackageSize returns the size new package maps are built with.
func (d *Desk) PackageSize() int { return d.partitioner.Size() }

// Languages returns the language codes used in direction labels.
func (d *Desk) Languages() domain.Languages { return d.languages }

// Regenerate rebuilds and persists the package map of the open list.
func (d *Desk) Regenerate(ctx context.Context) (domain.PackageMap, error) {
	if d.catalog == nil {
		return domain.PackageMap{}, ErrNoList
	}
	pm, err := d.partitioner.Create(ctx, d.catalog)
	if err != nil {
		return domain.PackageMap{}, err
	}
	d.packages = pm
	d.status = packages.Ready
	return pm, nil
}

// Start replaces any live session with a new one.
func (d *Desk) Start(sel quiz.Selection) (*quiz.Session, error) {
	if d.catalog == nil {
		return nil, ErrNoList
	}
	if d.status != packages.Ready {
		return nil, ErrNoPackages
	}
	s, err := d.engine.Start(d.catalog, d.packages, sel)
	if err != nil {
		return nil, err
	}
	d.session = s
	return s, nil
}

// Session returns the live session, or nil.
func (d *Desk) Session() *quiz.Session { return d.session }

// Engine returns the engine that drives the live session.
func (d *Desk) Engine() *quiz.Engine { return d.engine }

// Reset discards the live session.
func (d *Desk) Reset() {
	if d.session != nil {
		slog.Debug("quiz discarded", "session", d.session.ID)
	}
	d.session = nil
}

// Outcome is the result of finishing a session.
type Outcome struct {
	Result quiz.Result
	Key    scores.Key
	// Recorded is false for the all-packages aggregate, which is never stored.
	Recorded   bool
	Submission scores.Submission
}

// Finish summarizes the completed live session and offers its result to the
// score board once. Calling it again returns the summary without writing.
// When the write fails the session is kept and Finish can be retried.
func (d *Desk) Finish(ctx context.Context) (Outcome, error) {
	s := d.session
	if s == nil {
		return Outcome{}, ErrNoSession
	}
	if !s.Done() {
		return Outcome{}, ErrNotFinished
	}

	out := Outcome{Result: d.engine.Summary(s)}
	if s.Package == domain.AllPackages || s.Empty() || s.ResultSaved {
		return out, nil
	}

	key, err := d.ScoreKey(s.Selection)
	if err != nil {
		return out, err
	}
	out.Key = key
	sub, err := d.board.SubmitIfBetter(ctx, key, out.Result.ScoreRecord(d.engine.Now()))
	if err != nil {
		return out, fmt.Errorf("recording result: %w", err)
	}
	s.ResultSaved = true
	out.Recorded = true
	out.Submission = sub
	return out, nil
}

// ScoreKey composes the leaderboard key of a selection.
func (d *Desk) ScoreKey(sel quiz.Selection) (scores.Key, error) {
	return scores.NewKey(sel.Direction.Label(d.languages), sel.Package, sel.Subset.String())
}

// Scores returns the open list's records for current packages, sorted by key.
// Without a ready package map every record is returned.
func (d *Desk) Scores(ctx context.Context) ([]scores.Entry, error) {
	if d.board == nil {
		return nil, ErrNoList
	}
	records, err := d.board.Load(ctx)
	if err != nil {
		return nil, err
	}
	return scores.Visible(records, d.validPackageIDs()), nil
}

// validPackageIDs is nil unless the open list has a ready package map, so a
// missing or stale map hides no records.
func (d *Desk) validPackageIDs() map[string]bool {
	if d.status != packages.Ready || d.packages.Empty() {
		return nil
	}
	return d.packages.IDSet()
}

// ResetScore removes one record and discards the live session so its result is not written back.
func (d *Desk) ResetScore(ctx context.Context, key string) error {
	if d.board == nil {
		return ErrNoList
	}
	k, err := scores.ParseKey(key)
	if err != nil {
		return err
	}
	if err := d.board.ResetOne(ctx, k); err != nil {
		return err
	}
	d.Reset()
	return nil
}

// ResetAllScores removes every record Scores would return and discards the live session.
func (d *Desk) ResetAllScores(ctx context.Context) (int, error) {
	if d.board == nil {
		return 0, ErrNoList
	}
	n, err := d.board.ResetAll(ctx, d.validPackageIDs())
	if err != nil {
		return 0, err
	}
	d.Reset()
	return n, nil
}

// PurgeScores drops the open list's whole score store and discards the live session.
func (d *Desk) PurgeScores(ctx context.Context) error {
	if d.board == nil {
		return ErrNoList
	}
	if err := d.board.Purge(ctx); err != nil {
		return err
	}
	d.Reset()
	return nil
}
