package gateway

import (
	"context"

	"scholar-retriever/domain"
	"scholar-retriever/driver"
	"scholar-retriever/query"
)

// StoreDriver is the raw document store client the gateway converts
// into domain terms.
type StoreDriver interface {
	Search(ctx context.Context, index string, query map[string]any, size int, aggs map[string]any) (*driver.SearchResponse, error)
	BM25Search(ctx context.Context, index, queryText string, filterQuery map[string]any, k int) ([]driver.ParagraphHit, error)
	CountDocuments(ctx context.Context, index string, query map[string]any) (int64, error)
	GetDocument(ctx context.Context, index, docID string) (map[string]any, error)
	Exists(ctx context.Context, index, docID string) (bool, error)
	AddDocument(ctx context.Context, index, docID string, doc map[string]any) error
	BulkIndex(ctx context.Context, index string, docs []driver.BulkEntry) error
	CreateIndex(ctx context.Context, index string, settings, mappings map[string]any) error
	IndexExists(ctx context.Context, index string) (bool, error)
}

type DocumentStoreGateway struct {
	driver StoreDriver
}

func NewDocumentStoreGateway(driver StoreDriver) *DocumentStoreGateway {
	return &DocumentStoreGateway{
		driver: driver,
	}
}

func (g *DocumentStoreGateway) Search(ctx context.Context, index string, searchQuery map[string]any, size int, aggs map[string]any) (*domain.SearchResult, error) {
	res, err := g.driver.Search(ctx, index, query.PostprocessQuery(searchQuery), size, aggs)
	if err != nil {
		return nil, &domain.StoreError{Op: "Search", Err: err.Error()}
	}

	return &domain.SearchResult{
		Contexts:     convertHits(res.Hits.Hits),
		Total:        res.Hits.Total.Value,
		Aggregations: res.Aggregations,
	}, nil
}

func (g *DocumentStoreGateway) BM25Search(ctx context.Context, index, queryText string, filterQuery map[string]any, k int) ([]domain.RetrievedContext, error) {
	hits, err := g.driver.BM25Search(ctx, index, queryText, filterQuery, k)
	if err != nil {
		return nil, &domain.StoreError{Op: "BM25Search", Err: err.Error()}
	}
	return convertHits(hits), nil
}

func (g *DocumentStoreGateway) CountDocuments(ctx context.Context, index string, query map[string]any) (int64, error) {
	count, err := g.driver.CountDocuments(ctx, index, query)
	if err != nil {
		return 0, &domain.StoreError{Op: "CountDocuments", Err: err.Error()}
	}
	return count, nil
}

func (g *DocumentStoreGateway) GetDocument(ctx context.Context, index, docID string) (map[string]any, error) {
	doc, err := g.driver.GetDocument(ctx, index, docID)
	if err != nil {
		return nil, &domain.StoreError{Op: "GetDocument", Err: err.Error()}
	}
	return doc, nil
}

func (g *DocumentStoreGateway) Exists(ctx context.Context, index, docID string) (bool, error) {
	ok, err := g.driver.Exists(ctx, index, docID)
	if err != nil {
		return false, &domain.StoreError{Op: "Exists", Err: err.Error()}
	}
	return ok, nil
}

func (g *DocumentStoreGateway) AddDocument(ctx context.Context, index, docID string, doc map[string]any) error {
	if err := g.driver.AddDocument(ctx, index, docID, doc); err != nil {
		return &domain.StoreError{Op: "AddDocument", Err: err.Error()}
	}
	return nil
}

func (g *DocumentStoreGateway) BulkIndex(ctx context.Context, index string, docs []domain.BulkDocument) error {
	entries := make([]driver.BulkEntry, len(docs))
	for i, doc := range docs {
		entries[i] = driver.BulkEntry{ID: doc.ID, Source: doc.Source}
	}
	if err := g.driver.BulkIndex(ctx, index, entries); err != nil {
		return &domain.StoreError{Op: "BulkIndex", Err: err.Error()}
	}
	return nil
}

func (g *DocumentStoreGateway) CreateIndex(ctx context.Context, index string, settings, mappings map[string]any) error {
	if err := g.driver.CreateIndex(ctx, index, settings, mappings); err != nil {
		return &domain.StoreError{Op: "CreateIndex", Err: err.Error()}
	}
	return nil
}

func (g *DocumentStoreGateway) IndexExists(ctx context.Context, index string) (bool, error) {
	ok, err := g.driver.IndexExists(ctx, index)
	if err != nil {
		return false, &domain.StoreError{Op: "IndexExists", Err: err.Error()}
	}
	return ok, nil
}

// paragraphMappings is the strict schema of the paragraphs index.
var paragraphMappings = map[string]any{
	"dynamic": "strict",
	"properties": map[string]any{
		"article_id":   map[string]any{"type": "keyword"},
		"doi":          map[string]any{"type": "keyword"},
		"pmc_id":       map[string]any{"type": "keyword"},
		"pubmed_id":    map[string]any{"type": "keyword"},
		"arxiv_id":     map[string]any{"type": "keyword"},
		"title":        map[string]any{"type": "text"},
		"authors":      map[string]any{"type": "text", "fields": map[string]any{"keyword": map[string]any{"type": "keyword"}}},
		"journal":      map[string]any{"type": "keyword"},
		"date":         map[string]any{"type": "date", "format": "yyyy-MM-dd"},
		"section":      map[string]any{"type": "keyword"},
		"paragraph_id": map[string]any{"type": "short"},
		"text":         map[string]any{"type": "text"},
		"article_type": map[string]any{"type": "keyword"},
	},
}

// EnsureParagraphsIndex creates the paragraphs index with its strict
// mappings when it does not exist yet.
func (g *DocumentStoreGateway) EnsureParagraphsIndex(ctx context.Context, index string) error {
	exists, err := g.IndexExists(ctx, index)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return g.CreateIndex(ctx, index, nil, paragraphMappings)
}

func convertHits(hits []driver.ParagraphHit) []domain.RetrievedContext {
	contexts := make([]domain.RetrievedContext, 0, len(hits))
	for _, hit := range hits {
		contexts = append(contexts, domain.RetrievedContext{
			ArticleID:   hit.Source.ArticleID,
			DOI:         hit.Source.DOI,
			PubmedID:    hit.Source.PubmedID,
			PMCID:       hit.Source.PMCID,
			ArxivID:     hit.Source.ArxivID,
			Title:       hit.Source.Title,
			Authors:     hit.Source.Authors,
			Journal:     hit.Source.Journal,
			Date:        hit.Source.Date,
			Section:     hit.Source.Section,
			ParagraphID: hit.Source.ParagraphID,
			Text:        hit.Source.Text,
			ArticleType: hit.Source.ArticleType,
			DocumentID:  hit.ID,
			Score:       hit.Score,
		})
	}
	return contexts
}
