package resolver

import (
	"iter"
	"slices"
	"strings"

	"github.com/pipeline-tools/component-finder/internal/release"
	"github.com/pipeline-tools/component-finder/internal/semver"
)

// Resolved is the winning release of one component.
type Resolved struct {
	Component string
	Release   string
	Version   semver.Version
	Path      string
	Metadata  *release.Metadata
}

// Mapping is the ordered component name to release path mapping.
// Entries are sorted by component name.
type Mapping struct {
	entries []Resolved
}

// NewMapping builds a Mapping from resolved releases. Later entries with a
// component name already present are dropped.
func NewMapping(entries ...Resolved) *Mapping {
	m := &Mapping{entries: make([]Resolved, 0, len(entries))}
	for _, e := range entries {
		if _, ok := m.Get(e.Component); ok {
			continue
		}
		m.entries = append(m.entries, e)
	}
	slices.SortStableFunc(m.entries, func(a, b Resolved) int {
		return strings.Compare(a.Component, b.Component)
	})
	return m
}

// Len returns the number of components in the mapping.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in component name order.
func (m *Mapping) Entries() []Resolved {
	return slices.Clone(m.entries)
}

// All yields component names and paths in component name order.
func (m *Mapping) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range m.entries {
			if !yield(e.Component, e.Path) {
				return
			}
		}
	}
}

// Get returns the resolved release of the named component.
func (m *Mapping) Get(component string) (Resolved, bool) {
	for _, e := range m.entries {
		if e.Component == component {
			return e, true
		}
	}
	return Resolved{}, false
}

// Paths returns the mapping as a plain map.
func (m *Mapping) Paths() map[string]string {
	out := make(map[string]string, len(m.entries))
	for name, path := range m.All() {
		out[name] = path
	}
	return out
}
