package gateway

import (
	"context"

	"scholar-retriever/domain"
	"scholar-retriever/driver/cohere"
)

// RerankDriver is the raw rerank API client.
type RerankDriver interface {
	Rerank(ctx context.Context, queryText string, documents []string, topN int) ([]cohere.RankedDocument, error)
}

type RerankerGateway struct {
	driver RerankDriver
}

func NewRerankerGateway(driver RerankDriver) *RerankerGateway {
	return &RerankerGateway{
		driver: driver,
	}
}

// Rerank submits the context texts to the relevance model and rebuilds
// the top k contexts in model order. k is clamped to the candidate
// count. The result keeps contexts, texts, scores and the original
// positions as parallel slices.
func (g *RerankerGateway) Rerank(ctx context.Context, queryText string, contexts []domain.RetrievedContext, k int) (*domain.RerankResult, error) {
	if k > len(contexts) {
		k = len(contexts)
	}
	if len(contexts) == 0 || k <= 0 {
		return &domain.RerankResult{
			Contexts: []domain.RetrievedContext{},
			Texts:    []string{},
			Scores:   []float64{},
			Indices:  []int{},
		}, nil
	}

	documents := make([]string, len(contexts))
	for i, c := range contexts {
		documents[i] = c.Text
	}

	ranked, err := g.driver.Rerank(ctx, queryText, documents, k)
	if err != nil {
		return nil, &domain.RerankError{Op: "Rerank", Err: err.Error()}
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	result := &domain.RerankResult{
		Contexts: make([]domain.RetrievedContext, 0, len(ranked)),
		Texts:    make([]string, 0, len(ranked)),
		Scores:   make([]float64, 0, len(ranked)),
		Indices:  make([]int, 0, len(ranked)),
	}
	for _, doc := range ranked {
		if doc.Index < 0 || doc.Index >= len(contexts) {
			return nil, &domain.RerankError{Op: "Rerank", Err: "model returned out of range document index"}
		}
		result.Contexts = append(result.Contexts, contexts[doc.Index])
		result.Texts = append(result.Texts, contexts[doc.Index].Text)
		result.Scores = append(result.Scores, doc.RelevanceScore)
		result.Indices = append(result.Indices, doc.Index)
	}
	return result, nil
}
