package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-retriever/domain"
	"scholar-retriever/query"
)

func TestArticleCount(t *testing.T) {
	store := &fakeStore{searchResult: &domain.SearchResult{
		Aggregations: map[string]any{
			"article_count": map[string]any{"value": float64(7)},
		},
	}}
	u := NewArticleCountUsecase(store, nil, "paragraphs")

	count, err := u.Execute(context.Background(), []string{"cortex"}, nil, query.Facets{}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	aggs := store.lastAggs["article_count"].(map[string]any)["cardinality"].(map[string]any)
	assert.Equal(t, "article_id", aggs["field"])
}

type regionFanout map[string][]string

func (f regionFanout) ExpandRegionName(name string) []string {
	if expanded, ok := f[name]; ok {
		return expanded
	}
	return []string{name}
}

func TestArticleCountResolveHierarchy(t *testing.T) {
	store := &fakeStore{searchResult: &domain.SearchResult{
		Aggregations: map[string]any{
			"article_count": map[string]any{"value": float64(2)},
		},
	}}
	expander := regionFanout{"thalamus": {"thalamus", "lateral geniculate nucleus"}}
	u := NewArticleCountUsecase(store, expander, "paragraphs")

	_, err := u.Execute(context.Background(), nil, []string{"thalamus"}, query.Facets{}, true)
	require.NoError(t, err)

	must := store.lastQuery["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	should := must[0].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	assert.Len(t, should, 2)
}

func TestArticleCountHierarchyOffKeepsRegions(t *testing.T) {
	store := &fakeStore{searchResult: &domain.SearchResult{
		Aggregations: map[string]any{
			"article_count": map[string]any{"value": float64(2)},
		},
	}}
	expander := regionFanout{"thalamus": {"thalamus", "lateral geniculate nucleus"}}
	u := NewArticleCountUsecase(store, expander, "paragraphs")

	_, err := u.Execute(context.Background(), nil, []string{"thalamus"}, query.Facets{}, false)
	require.NoError(t, err)

	must := store.lastQuery["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	should := must[0].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	assert.Len(t, should, 1)
}

func TestArticleCountRequiresCriteria(t *testing.T) {
	u := NewArticleCountUsecase(&fakeStore{}, nil, "paragraphs")
	_, err := u.Execute(context.Background(), nil, nil, query.Facets{}, false)
	require.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestArticleCountMalformedAggregation(t *testing.T) {
	store := &fakeStore{searchResult: &domain.SearchResult{Aggregations: map[string]any{}}}
	u := NewArticleCountUsecase(store, nil, "paragraphs")

	_, err := u.Execute(context.Background(), []string{"cortex"}, nil, query.Facets{}, false)
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
}
