package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"scholar-retriever/domain"
	"scholar-retriever/logger"
	"scholar-retriever/query"
	appOtel "scholar-retriever/utils/otel"
)

// RetrieveParagraphsUsecase runs the full retrieval pipeline: BM25
// search, abstract attachment, optional neural reranking and metadata
// fusion.
type RetrieveParagraphsUsecase struct {
	retrieve *RetrieveContextsUsecase
	rerank   *RerankContextsUsecase
	fuse     *FuseMetadataUsecase
}

func NewRetrieveParagraphsUsecase(
	retrieve *RetrieveContextsUsecase,
	rerank *RerankContextsUsecase,
	fuse *FuseMetadataUsecase,
) *RetrieveParagraphsUsecase {
	return &RetrieveParagraphsUsecase{
		retrieve: retrieve,
		rerank:   rerank,
		fuse:     fuse,
	}
}

// RetrievalRequest carries the parameters of one retrieval call. Query
// is the free text form; Topics and Regions are the boolean parameter
// form used when Query is empty.
type RetrievalRequest struct {
	Query       string
	Topics      []string
	Regions     []string
	RetrieverK  int
	RerankerK   int
	UseReranker bool
	DBFilter    map[string]any
}

// Execute returns one fused record per surviving context, top ranked
// first. An empty search outcome surfaces as domain.ErrNoResults.
func (u *RetrieveParagraphsUsecase) Execute(ctx context.Context, req RetrievalRequest) ([]domain.ParagraphMetadata, error) {
	start := time.Now()
	queryText := req.Query
	if queryText == "" {
		queryText = query.BuildQueryText(req.Topics, req.Regions)
	}
	ctx = logger.WithQuery(ctx, queryText)

	var contexts []domain.RetrievedContext
	var err error
	if req.Query != "" {
		contexts, err = u.retrieve.Execute(logger.WithRetrievalStage(ctx, "retrieve"), req.Query, req.RetrieverK, req.DBFilter)
	} else {
		contexts, err = u.retrieve.ExecuteBoolean(logger.WithRetrievalStage(ctx, "retrieve"), req.Topics, req.Regions, req.DBFilter, req.RetrieverK)
	}
	if err != nil {
		recordError(ctx, "retrieve")
		return nil, err
	}
	recordSearch(ctx, "retrieval", len(contexts), time.Since(start))
	if len(contexts) == 0 {
		return nil, domain.ErrNoResults
	}
	logger.Ctx(ctx).Info("semantic search done",
		"hits", len(contexts),
		"duration_ms", time.Since(start).Milliseconds())

	contexts = u.fuse.AttachAbstracts(logger.WithRetrievalStage(ctx, "fuse"), contexts)

	ranked, err := u.rerank.Execute(logger.WithRetrievalStage(ctx, "rerank"), queryText, contexts, req.RerankerK, req.UseReranker)
	if err != nil {
		recordError(ctx, "rerank")
		return nil, err
	}

	return u.fuse.Execute(logger.WithRetrievalStage(ctx, "fuse"), ranked), nil
}

func recordSearch(ctx context.Context, surface string, hits int, elapsed time.Duration) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("surface", surface))
	m.SearchesTotal.Add(ctx, 1, attrs)
	m.SearchDuration.Record(ctx, elapsed.Seconds(), attrs)
	if hits == 0 {
		m.EmptyResultsTotal.Add(ctx, 1, attrs)
	}
}

func recordError(ctx context.Context, operation string) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
