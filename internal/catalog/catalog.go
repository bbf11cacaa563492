package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conorfennell/verbivisa/internal/domain"
)

const listSuffix = ".csv"

// Loader reads word lists from a directory of CSV files.
type Loader struct {
	Dir       string
	Columns   Columns
	Delimiter rune
}

// NewLoader returns a loader for dir using the default columns and a comma delimiter.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, Columns: DefaultColumns, Delimiter: ','}
}

// ListID derives the storage namespace of a source list from its file name.
func ListID(sourceID string) string {
	base := filepath.Base(sourceID)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover returns the file names of all lists in the directory, sorted.
func (l *Loader) Discover() ([]string, error) {
	dirEntries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading list directory %s: %w", l.Dir, err)
	}
	var lists []string
	for _, d := range dirEntries {
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), listSuffix) {
			lists = append(lists, d.Name())
		}
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLists, l.Dir)
	}
	sort.Strings(lists)
	return lists, nil
}

// Load reads the list named sourceID. Every failure is a *LoadError.
func (l *Loader) Load(sourceID string) (*domain.Catalog, error) {
	path := filepath.Join(l.Dir, filepath.Base(sourceID))
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNotFound
		}
		return nil, &LoadError{Source: sourceID, Err: err}
	}
	defer file.Close()

	delim := l.Delimiter
	if delim == 0 {
		delim = ','
	}
	entries, err := Parse(file, l.Columns, delim)
	if err != nil {
		return nil, &LoadError{Source: sourceID, Err: err}
	}

	cat := domain.NewCatalog(ListID(sourceID), entries)
	slog.Debug("word list loaded", "source", sourceID, "list", cat.ID(), "entries", cat.Len())
	return cat, nil
}
