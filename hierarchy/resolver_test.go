package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameIndex(t *testing.T) {
	index := NameIndex(map[int]string{
		10: "Thalamus",
		20: "Cortex",
		30: "thalamus",
	})

	// Case-folded, lowest id wins on collision.
	assert.Equal(t, 10, index["thalamus"])
	assert.Equal(t, 20, index["cortex"])
	assert.Len(t, index, 2)
}

func TestResolverDescendantIDs(t *testing.T) {
	r := NewResolver(fixturePath)

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{name: "subtree sorted ascending", token: "343", want: []string{"343", "549", "1097"}},
		{name: "leaf", token: "688", want: []string{"688"}},
		{name: "non integer token passes through", token: "thalamus", want: []string{"thalamus"}},
		{name: "unknown id passes through", token: "424242", want: []string{"424242"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.DescendantIDs(tt.token))
		})
	}
}

func TestResolverDescendantIDsMissingFile(t *testing.T) {
	r := NewResolver("testdata/does_not_exist.json")
	assert.Equal(t, []string{"343"}, r.DescendantIDs("343"))
}

func TestResolverExpandRegionName(t *testing.T) {
	r := NewResolver(fixturePath)

	tests := []struct {
		name   string
		region string
		want   []string
	}{
		{
			name:   "subtree names sorted by id, lowercased",
			region: "Brain stem",
			want:   []string{"brain stem", "thalamus", "hypothalamus"},
		},
		{
			name:   "case insensitive lookup",
			region: "THALAMUS",
			want:   []string{"thalamus"},
		},
		{
			name:   "unknown name passes through unchanged",
			region: "Unknown Region",
			want:   []string{"Unknown Region"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ExpandRegionName(tt.region))
		})
	}
}

func TestResolverExpandRegionNameMissingFile(t *testing.T) {
	r := NewResolver("testdata/does_not_exist.json")
	assert.Equal(t, []string{"Thalamus"}, r.ExpandRegionName("Thalamus"))
}
