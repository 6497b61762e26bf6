package hierarchy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/brainregion_hierarchy.json"

func TestLoad(t *testing.T) {
	m, err := Load(fixturePath)
	require.NoError(t, err)

	assert.Equal(t, 997, m.RootID)
	assert.Equal(t, "Thalamus", m.Names[549])
	assert.Equal(t, 343, m.ParentID[549])
	assert.Equal(t, []int{549, 1097}, m.Children(343))

	// The background node is always present.
	assert.Equal(t, "background", m.Names[BackgroundID])
	assert.Equal(t, BackgroundID, m.ParentID[BackgroundID])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.json")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Path, "does_not_exist")
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadNonIntegerKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badkeys.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"names":{"abc":"nope"}}`), 0o644))

	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestDescendants(t *testing.T) {
	m, err := Load(fixturePath)
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []int
		want []int
	}{
		{name: "leaf is its own descendant set", ids: []int{688}, want: []int{688}},
		{name: "subtree", ids: []int{343}, want: []int{343, 549, 1097}},
		{name: "multiple roots deduplicate", ids: []int{567, 688}, want: []int{567, 623, 688}},
		{name: "unknown id passes through", ids: []int{424242}, want: []int{424242}},
		{name: "whole tree", ids: []int{997}, want: []int{8, 343, 549, 567, 623, 688, 997, 1097}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Descendants(tt.ids...)
			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
		})
	}
}

func TestDescendantsSurvivesCycle(t *testing.T) {
	m := NewRegionMeta()
	m.Names[1] = "a"
	m.Names[2] = "b"
	m.ChildrenIDs[1] = []int{2}
	m.ChildrenIDs[2] = []int{1}

	got := m.Descendants(1)
	assert.Len(t, got, 2)
}

func TestSaveRoundTrip(t *testing.T) {
	m, err := Load(fixturePath)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, m.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.RootID, reloaded.RootID)
	assert.Equal(t, m.Names, reloaded.Names)
	assert.Equal(t, m.ParentID, reloaded.ParentID)
	assert.Equal(t, m.ChildrenIDs, reloaded.ChildrenIDs)
}
