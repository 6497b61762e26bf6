package usecase

import (
	"context"

	"scholar-retriever/domain"
	"scholar-retriever/logger"
	"scholar-retriever/port"
	"scholar-retriever/query"
)

// RetrieveContextsUsecase runs the BM25 search over the paragraph index
// and filters out oversized hits.
type RetrieveContextsUsecase struct {
	store           port.DocumentStore
	indexParagraphs string
	maxLength       int
}

func NewRetrieveContextsUsecase(store port.DocumentStore, indexParagraphs string, maxLength int) *RetrieveContextsUsecase {
	return &RetrieveContextsUsecase{
		store:           store,
		indexParagraphs: indexParagraphs,
		maxLength:       maxLength,
	}
}

// Execute returns up to retrieverK contexts ranked by the store.
// Paragraphs longer than the configured maximum are treated as garbage
// and dropped, so fewer than retrieverK contexts may come back. An
// empty result is a valid outcome, not an error.
func (u *RetrieveContextsUsecase) Execute(ctx context.Context, queryText string, retrieverK int, dbFilter map[string]any) ([]domain.RetrievedContext, error) {
	contexts, err := u.store.BM25Search(ctx, u.indexParagraphs, queryText, dbFilter, retrieverK)
	if err != nil {
		return nil, err
	}
	return u.dropOversized(ctx, contexts), nil
}

// ExecuteBoolean serves the topics/regions parameter form. Topics and
// regions are joined into a boolean query string and searched together
// with the facet filters; oversized hits are dropped the same way as in
// Execute.
func (u *RetrieveContextsUsecase) ExecuteBoolean(ctx context.Context, topics, regions []string, dbFilter map[string]any, retrieverK int) ([]domain.RetrievedContext, error) {
	q, err := query.BuildFilterQuery(topics, regions, dbFilter)
	if err != nil {
		return nil, err
	}
	res, err := u.store.Search(ctx, u.indexParagraphs, q, retrieverK, nil)
	if err != nil {
		return nil, err
	}
	return u.dropOversized(ctx, res.Contexts), nil
}

func (u *RetrieveContextsUsecase) dropOversized(ctx context.Context, contexts []domain.RetrievedContext) []domain.RetrievedContext {
	kept := make([]domain.RetrievedContext, 0, len(contexts))
	for _, c := range contexts {
		if len(c.Text) > u.maxLength {
			logger.Ctx(ctx).Info("dropping oversized paragraph",
				"document_id", c.DocumentID,
				"length", len(c.Text),
				"max_length", u.maxLength)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
