package usecase

import (
	"context"

	"scholar-retriever/domain"
	"scholar-retriever/port"
	"scholar-retriever/query"
)

// cardinalityPrecision keeps the distinct article count exact up to
// this many articles, approximate beyond.
const cardinalityPrecision = 10000

// ArticleCountUsecase counts distinct articles matching topic, region
// and facet criteria.
type ArticleCountUsecase struct {
	store           port.DocumentStore
	expander        query.RegionExpander // nil when no hierarchy file is configured
	indexParagraphs string
}

func NewArticleCountUsecase(store port.DocumentStore, expander query.RegionExpander, indexParagraphs string) *ArticleCountUsecase {
	return &ArticleCountUsecase{
		store:           store,
		expander:        expander,
		indexParagraphs: indexParagraphs,
	}
}

func (u *ArticleCountUsecase) Execute(ctx context.Context, topics, regions []string, facets query.Facets, resolveHierarchy bool) (int64, error) {
	var expander query.RegionExpander
	if resolveHierarchy {
		expander = u.expander
	}
	searchQuery, err := query.BuildSearchQuery(topics, regions, facets.FilterQuery(), expander)
	if err != nil {
		return 0, err
	}

	aggs := map[string]any{
		"article_count": map[string]any{
			"cardinality": map[string]any{
				"field":               "article_id",
				"precision_threshold": cardinalityPrecision,
			},
		},
	}

	res, err := u.store.Search(ctx, u.indexParagraphs, searchQuery, 0, aggs)
	if err != nil {
		return 0, err
	}

	count, ok := aggregationValue(res.Aggregations, "article_count")
	if !ok {
		return 0, &domain.StoreError{Op: "ArticleCount", Err: "missing article_count aggregation in response"}
	}
	return int64(count), nil
}

func aggregationValue(aggs map[string]any, name string) (float64, bool) {
	agg, ok := aggs[name].(map[string]any)
	if !ok {
		return 0, false
	}
	value, ok := agg["value"].(float64)
	return value, ok
}
