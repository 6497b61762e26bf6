package port

import (
	"context"

	"scholar-retriever/domain"
)

// Reranker scores candidate contexts against a query with an external
// relevance model.
type Reranker interface {
	// Rerank returns the top k contexts reordered by model relevance
	// together with their scores and original positions.
	Rerank(ctx context.Context, query string, contexts []domain.RetrievedContext, k int) (*domain.RerankResult, error)
}
