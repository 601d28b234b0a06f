package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipeline-tools/component-finder/internal/semver"
)

func TestNewMapping_SortsAndDedupes(t *testing.T) {
	m := NewMapping(
		Resolved{Component: "beta", Path: "/b"},
		Resolved{Component: "alpha", Path: "/a", Version: semver.MustParse("1.0.0")},
		Resolved{Component: "beta", Path: "/b2"},
	)

	assert.Equal(t, 2, m.Len())
	entries := m.Entries()
	assert.Equal(t, "alpha", entries[0].Component)
	assert.Equal(t, "beta", entries[1].Component)
	assert.Equal(t, map[string]string{"alpha": "/a", "beta": "/b"}, m.Paths())
}

func TestMapping_EntriesIsACopy(t *testing.T) {
	m := NewMapping(Resolved{Component: "alpha", Path: "/a"})
	entries := m.Entries()
	entries[0].Path = "/changed"

	got, ok := m.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, "/a", got.Path)
}

func TestMapping_AllStopsEarly(t *testing.T) {
	m := NewMapping(Resolved{Component: "a"}, Resolved{Component: "b"}, Resolved{Component: "c"})

	var seen []string
	for name := range m.All() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMapping_GetMissing(t *testing.T) {
	_, ok := NewMapping().Get("nope")
	assert.False(t, ok)
}
