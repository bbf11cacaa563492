package domain

// Package is one named, fixed-size slice of a catalog.
type Package struct {
	ID      string
	Indices []int
}

// PackageMap is the ordered set of packages partitioning a catalog.
type PackageMap struct {
	Packages []Package
}

// IDs returns the package identifiers in order.
func (m PackageMap) IDs() []string {
	ids := make([]string, 0, len(m.Packages))
	for _, p := range m.Packages {
		ids = append(ids, p.ID)
	}
	return ids
}

// IDSet returns the package identifiers as a set.
func (m PackageMap) IDSet() map[string]bool {
	set := make(map[string]bool, len(m.Packages))
	for _, p := range m.Packages {
		set[p.ID] = true
	}
	return set
}

// Lookup returns the package with the given id.
func (m PackageMap) Lookup(id string) (Package, bool) {
	for _, p := range m.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Total returns the number of indices across all packages.
func (m PackageMap) Total() int {
	n := 0
	for _, p := range m.Packages {
		n += len(p.Indices)
	}
	return n
}

// AllIndices returns every index of every package, in package order.
func (m PackageMap) AllIndices() []int {
	all := make([]int, 0, m.Total())
	for _, p := range m.Packages {
		all = append(all, p.Indices...)
	}
	return all
}

// Empty reports whether the map has no packages.
func (m PackageMap) Empty() bool { return len(m.Packages) == 0 }
