package packages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/verbivisa/internal/domain"
)

// DefaultSize is the number of words per package.
const DefaultSize = 20

// Status describes a persisted package map relative to the current catalog.
type Status int

const (
	// Absent means no map has been persisted for the list.
	Absent Status = iota
	// Stale means the persisted map no longer covers the catalog.
	Stale
	// Ready means the persisted map can be used.
	Ready
)

func (s Status) String() string {
	switch s {
	case Stale:
		return "stale"
	case Ready:
		return "ready"
	}
	return "absent"
}

// Store persists package maps per list identifier.
type Store interface {
	LoadPackageMap(ctx context.Context, listID string) (domain.PackageMap, bool, error)
	ReplacePackageMap(ctx context.Context, listID string, m domain.PackageMap) error
}

// Partitioner splits catalogs into packages and keeps the split in a Store.
type Partitioner struct {
	store Store
	size  int
}

// New returns a partitioner producing packages of size words. A size below 1 uses DefaultSize.
func New(store Store, size int) *Partitioner {
	if size < 1 {
		size = DefaultSize
	}
	return &Partitioner{store: store, size: size}
}

// Size returns the package size used by Create.
func (p *Partitioner) Size() int { return p.size }

// PackageID formats the identifier of the n-th package, counting from 1.
func PackageID(n int) string {
	return fmt.Sprintf("Package %d", n)
}

// Split slices indices 0..n-1 into consecutive packages of size entries.
// The last package holds the remainder.
func Split(n, size int) domain.PackageMap {
	if size < 1 {
		size = DefaultSize
	}
	var m domain.PackageMap
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		indices := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			indices = append(indices, i)
		}
		m.Packages = append(m.Packages, domain.Package{ID: PackageID(len(m.Packages) + 1), Indices: indices})
	}
	return m
}

// LoadExisting returns the persisted map of the catalog's list and its status.
// It never regenerates; on Absent or Stale the caller decides whether to call Create.
func (p *Partitioner) LoadExisting(ctx context.Context, cat *domain.Catalog) (domain.PackageMap, Status, error) {
	m, found, err := p.store.LoadPackageMap(ctx, cat.ID())
	if err != nil {
		return domain.PackageMap{}, Absent, err
	}
	if !found {
		return domain.PackageMap{}, Absent, nil
	}
	if m.Total() != cat.Len() || !inRange(m, cat.Len()) {
		slog.Warn("package map does not match word list",
			"list", cat.ID(), "indexed", m.Total(), "entries", cat.Len())
		return m, Stale, nil
	}
	return m, Ready, nil
}

// Create builds a fresh map for the catalog and persists it, replacing any previous map.
func (p *Partitioner) Create(ctx context.Context, cat *domain.Catalog) (domain.PackageMap, error) {
	m := Split(cat.Len(), p.size)
	if err := p.store.ReplacePackageMap(ctx, cat.ID(), m); err != nil {
		return domain.PackageMap{}, err
	}
	slog.Info("package map created", "list", cat.ID(), "entries", cat.Len(), "packages", len(m.Packages), "size", p.size)
	return m, nil
}

func inRange(m domain.PackageMap, n int) bool {
	for _, pkg := range m.Packages {
		for _, idx := range pkg.Indices {
			if idx < 0 || idx >= n {
				return false
			}
		}
	}
	return true
}
