package domain

// WordEntry represents a single row of a word list.
// SourceTerm and TargetTerm may each hold several accepted forms separated by ';'.
type WordEntry struct {
	SourceTerm string
	TargetTerm string
	Irregular  bool
}

// Catalog is the ordered, read-only list of entries loaded from one source list.
// An entry is identified by its position; the catalog is never reordered.
type Catalog struct {
	id      string
	entries []WordEntry
}

// NewCatalog copies entries into a new catalog identified by id.
func NewCatalog(id string, entries []WordEntry) *Catalog {
	cp := make([]WordEntry, len(entries))
	copy(cp, entries)
	return &Catalog{id: id, entries: cp}
}

// ID returns the source-list identifier used to namespace persisted state.
func (c *Catalog) ID() string { return c.id }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entry returns the entry at index i by value and reports whether i is in range.
func (c *Catalog) Entry(i int) (WordEntry, bool) {
	if i < 0 || i >= len(c.entries) {
		return WordEntry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of all entries.
func (c *Catalog) Entries() []WordEntry {
	cp := make([]WordEntry, len(c.entries))
	copy(cp, c.entries)
	return cp
}
