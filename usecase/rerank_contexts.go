package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"scholar-retriever/domain"
	"scholar-retriever/port"
	appOtel "scholar-retriever/utils/otel"
)

// RerankContextsUsecase applies the neural reranker when one is
// configured and falls back to store order otherwise.
type RerankContextsUsecase struct {
	reranker port.Reranker // nil when no reranker is configured
}

func NewRerankContextsUsecase(reranker port.Reranker) *RerankContextsUsecase {
	return &RerankContextsUsecase{
		reranker: reranker,
	}
}

// Execute reorders the contexts by model relevance and keeps the top
// rerankerK. Without a reranker, or when the caller opts out, the
// contexts come back unchanged with identity indices and nil scores so
// the caller can tell pass-through from a real ranking.
func (u *RerankContextsUsecase) Execute(ctx context.Context, queryText string, contexts []domain.RetrievedContext, rerankerK int, useReranker bool) (*domain.RerankResult, error) {
	if u.reranker == nil || !useReranker {
		indices := make([]int, len(contexts))
		texts := make([]string, len(contexts))
		for i, c := range contexts {
			indices[i] = i
			texts[i] = c.Text
		}
		return &domain.RerankResult{
			Contexts: contexts,
			Texts:    texts,
			Scores:   nil,
			Indices:  indices,
		}, nil
	}

	start := time.Now()
	result, err := u.reranker.Rerank(ctx, queryText, contexts, rerankerK)
	recordRerank(ctx, err == nil, time.Since(start))
	return result, err
}

func recordRerank(ctx context.Context, ok bool, elapsed time.Duration) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("ok", ok))
	m.RerankCallsTotal.Add(ctx, 1, attrs)
	m.RerankDuration.Record(ctx, elapsed.Seconds(), attrs)
}
