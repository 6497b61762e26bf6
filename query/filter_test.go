package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacetsFilterQuery(t *testing.T) {
	f := Facets{
		ArticleTypes: []string{"research-article", "review"},
		Authors:      []string{"Ramon y Cajal, Santiago"},
		Journals:     []string{"0028-0836"},
		DateFrom:     "2019-01-01",
		DateTo:       "2023-12-31",
	}

	fq := f.FilterQuery()
	require.NotNil(t, fq)
	must := fq["bool"].(map[string]any)["must"].([]any)
	require.Len(t, must, 5)

	assert.Equal(t, map[string]any{"terms": map[string]any{"article_type": []string{"research-article", "review"}}}, must[0])
	assert.Equal(t, map[string]any{"terms": map[string]any{"authors.keyword": []string{"Ramon y Cajal, Santiago"}}}, must[1])
	assert.Equal(t, map[string]any{"terms": map[string]any{"journal": []string{"0028-0836"}}}, must[2])
	assert.Equal(t, map[string]any{"range": map[string]any{"date": map[string]any{"gte": "2019-01-01"}}}, must[3])
	assert.Equal(t, map[string]any{"range": map[string]any{"date": map[string]any{"lte": "2023-12-31"}}}, must[4])
}

func TestFacetsFilterQueryEmpty(t *testing.T) {
	assert.Nil(t, Facets{}.FilterQuery())
}

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name    string
		topics  []string
		regions []string
		want    string
	}{
		{
			name:    "topics and regions",
			topics:  []string{"pyramidal cells", "retina"},
			regions: []string{"brain region", "thalamus"},
			want:    "((pyramidal AND cells) AND retina) AND ((brain AND region) OR thalamus)",
		},
		{
			name:   "topics only",
			topics: []string{"synaptic plasticity"},
			want:   "(synaptic AND plasticity)",
		},
		{
			name:    "regions only",
			regions: []string{"cortex", "cerebellum"},
			want:    "cortex OR cerebellum",
		},
		{
			name: "nothing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueryText(tt.topics, tt.regions))
		})
	}
}

func TestQueryStringClause(t *testing.T) {
	clause := QueryStringClause("ph>7 and ca2+")
	inner := clause["query_string"].(map[string]any)
	assert.Equal(t, "text", inner["default_field"])
	assert.Equal(t, "ph>7 and ca2+", inner["query"])

	processed := PostprocessQuery(clause)
	assert.Equal(t, `ph7 and ca2\+`, processed["query_string"].(map[string]any)["query"])
}
