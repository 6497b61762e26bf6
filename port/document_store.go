package port

import (
	"context"

	"scholar-retriever/domain"
)

// DocumentStore abstracts the Elasticsearch/OpenSearch-compatible engine
// holding the paragraph and journal indexes.
type DocumentStore interface {
	// Search runs a structured query and returns the matching contexts
	// ordered by relevance. Aggregations, when requested, come back in
	// the result untouched.
	Search(ctx context.Context, index string, query map[string]any, size int, aggs map[string]any) (*domain.SearchResult, error)
	// BM25Search runs a plain text match over the text field with an
	// optional structured filter.
	BM25Search(ctx context.Context, index string, queryText string, filterQuery map[string]any, k int) ([]domain.RetrievedContext, error)
	// CountDocuments counts documents matching the query, all documents
	// when query is nil.
	CountDocuments(ctx context.Context, index string, query map[string]any) (int64, error)
	// GetDocument fetches a single document source by id.
	GetDocument(ctx context.Context, index string, docID string) (map[string]any, error)
	// Exists reports whether a document id is present in the index.
	Exists(ctx context.Context, index string, docID string) (bool, error)
	// AddDocument indexes one document under the given id.
	AddDocument(ctx context.Context, index string, docID string, doc map[string]any) error
	// BulkIndex uploads documents in a single bulk request.
	BulkIndex(ctx context.Context, index string, docs []domain.BulkDocument) error
	// CreateIndex creates an index with optional settings and mappings.
	CreateIndex(ctx context.Context, index string, settings, mappings map[string]any) error
	// IndexExists reports whether the index itself exists.
	IndexExists(ctx context.Context, index string) (bool, error)
}
