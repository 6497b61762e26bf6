package usecase

import (
	"context"
	"encoding/json"

	"scholar-retriever/domain"
	"scholar-retriever/port"
	"scholar-retriever/query"
)

// ArticleListingUsecase lists distinct matching articles with fused
// metadata, most relevant or most recent first.
type ArticleListingUsecase struct {
	store           port.DocumentStore
	fuse            *FuseMetadataUsecase
	expander        query.RegionExpander // nil when no hierarchy file is configured
	indexParagraphs string
}

func NewArticleListingUsecase(store port.DocumentStore, fuse *FuseMetadataUsecase, expander query.RegionExpander, indexParagraphs string) *ArticleListingUsecase {
	return &ArticleListingUsecase{
		store:           store,
		fuse:            fuse,
		expander:        expander,
		indexParagraphs: indexParagraphs,
	}
}

// ListingRequest carries the parameters of one listing call.
type ListingRequest struct {
	Topics           []string
	Regions          []string
	Facets           query.Facets
	NumberResults    int
	SortByDate       bool
	ResolveHierarchy bool
}

// Execute groups matching paragraphs per article, keeps the best hit of
// each article and returns the fused article records.
func (u *ArticleListingUsecase) Execute(ctx context.Context, req ListingRequest) ([]domain.ArticleMetadata, error) {
	var expander query.RegionExpander
	if req.ResolveHierarchy {
		expander = u.expander
	}
	searchQuery, err := query.BuildSearchQuery(req.Topics, req.Regions, req.Facets.FilterQuery(), expander)
	if err != nil {
		return nil, err
	}

	scoreAgg := map[string]any{"max": map[string]any{"script": "_score"}}
	if req.SortByDate {
		scoreAgg = map[string]any{"max": map[string]any{"field": "date"}}
	}
	aggs := map[string]any{
		"relevant_ids": map[string]any{
			"terms": map[string]any{
				"size":  req.NumberResults,
				"field": "article_id",
				"order": map[string]any{"score": "desc"},
			},
			"aggs": map[string]any{
				"score":   scoreAgg,
				"ids_hit": map[string]any{"top_hits": map[string]any{"size": 1}},
			},
		},
	}

	res, err := u.store.Search(ctx, u.indexParagraphs, searchQuery, 0, aggs)
	if err != nil {
		return nil, err
	}

	contexts, err := topHitsPerArticle(res.Aggregations)
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return nil, domain.ErrNoResults
	}

	return u.fuse.FuseArticles(ctx, contexts), nil
}

// topHitsPerArticle walks the relevant_ids aggregation and rebuilds one
// context per bucket from its single top hit.
func topHitsPerArticle(aggs map[string]any) ([]domain.RetrievedContext, error) {
	relevantIDs, ok := aggs["relevant_ids"].(map[string]any)
	if !ok {
		return nil, &domain.StoreError{Op: "ArticleListing", Err: "missing relevant_ids aggregation in response"}
	}
	buckets, ok := relevantIDs["buckets"].([]any)
	if !ok {
		return nil, &domain.StoreError{Op: "ArticleListing", Err: "malformed relevant_ids buckets"}
	}

	contexts := make([]domain.RetrievedContext, 0, len(buckets))
	for _, rawBucket := range buckets {
		bucket, ok := rawBucket.(map[string]any)
		if !ok {
			continue
		}
		hit, ok := firstTopHit(bucket)
		if !ok {
			continue
		}

		source, _ := hit["_source"].(map[string]any)
		payload, err := json.Marshal(source)
		if err != nil {
			return nil, &domain.StoreError{Op: "ArticleListing", Err: "encode top hit: " + err.Error()}
		}
		var c domain.RetrievedContext
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, &domain.StoreError{Op: "ArticleListing", Err: "decode top hit: " + err.Error()}
		}
		if id, ok := hit["_id"].(string); ok {
			c.DocumentID = id
		}
		if score, ok := hit["_score"].(float64); ok {
			c.Score = score
		}
		contexts = append(contexts, c)
	}
	return contexts, nil
}

func firstTopHit(bucket map[string]any) (map[string]any, bool) {
	idsHit, ok := bucket["ids_hit"].(map[string]any)
	if !ok {
		return nil, false
	}
	hitsWrapper, ok := idsHit["hits"].(map[string]any)
	if !ok {
		return nil, false
	}
	hits, ok := hitsWrapper["hits"].([]any)
	if !ok || len(hits) == 0 {
		return nil, false
	}
	hit, ok := hits[0].(map[string]any)
	return hit, ok
}
