package usecase

import (
	"context"

	"scholar-retriever/domain"
)

type fakeStore struct {
	bm25Contexts []domain.RetrievedContext
	bm25Err      error
	searchResult *domain.SearchResult
	searchErr    error

	lastQueryText string
	lastFilter    map[string]any
	lastK         int
	lastQuery     map[string]any
	lastAggs      map[string]any
}

func (f *fakeStore) Search(_ context.Context, _ string, query map[string]any, _ int, aggs map[string]any) (*domain.SearchResult, error) {
	f.lastQuery, f.lastAggs = query, aggs
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeStore) BM25Search(_ context.Context, _ string, queryText string, filterQuery map[string]any, k int) ([]domain.RetrievedContext, error) {
	f.lastQueryText, f.lastFilter, f.lastK = queryText, filterQuery, k
	if f.bm25Err != nil {
		return nil, f.bm25Err
	}
	return f.bm25Contexts, nil
}

func (f *fakeStore) CountDocuments(context.Context, string, map[string]any) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetDocument(context.Context, string, string) (map[string]any, error) {
	return nil, nil
}

func (f *fakeStore) Exists(context.Context, string, string) (bool, error) { return false, nil }
func (f *fakeStore) AddDocument(context.Context, string, string, map[string]any) error {
	return nil
}
func (f *fakeStore) BulkIndex(context.Context, string, []domain.BulkDocument) error { return nil }
func (f *fakeStore) CreateIndex(context.Context, string, map[string]any, map[string]any) error {
	return nil
}
func (f *fakeStore) IndexExists(context.Context, string) (bool, error) { return true, nil }

// fakeReranker reorders by descending text length, a stand-in ranking
// that is deterministic and visible in assertions.
type fakeReranker struct {
	result *domain.RerankResult
	err    error
	calls  int
}

func (f *fakeReranker) Rerank(_ context.Context, _ string, contexts []domain.RetrievedContext, k int) (*domain.RerankResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	if k > len(contexts) {
		k = len(contexts)
	}
	res := &domain.RerankResult{}
	for i := 0; i < k; i++ {
		res.Contexts = append(res.Contexts, contexts[i])
		res.Texts = append(res.Texts, contexts[i].Text)
		res.Scores = append(res.Scores, 1.0-float64(i)*0.1)
		res.Indices = append(res.Indices, i)
	}
	return res, nil
}

type fakeMetadata struct {
	abstracts     map[string]*string
	citations     map[string]*int
	journalNames  map[string]*string
	impactFactors map[string]*float64
}

func (f *fakeMetadata) Abstracts(_ context.Context, articleIDs []string) map[string]*string {
	out := map[string]*string{}
	for _, id := range articleIDs {
		if id != "" {
			out[id] = f.abstracts[id]
		}
	}
	return out
}

func (f *fakeMetadata) CitationCounts(_ context.Context, dois []string) map[string]*int {
	out := map[string]*int{}
	for _, doi := range dois {
		if doi != "" {
			out[doi] = f.citations[doi]
		}
	}
	return out
}

func (f *fakeMetadata) JournalNames(_ context.Context, issns []string) map[string]*string {
	out := map[string]*string{}
	for _, issn := range issns {
		if issn != "" {
			out[issn] = f.journalNames[issn]
		}
	}
	return out
}

func (f *fakeMetadata) ImpactFactors(_ context.Context, issns []string) map[string]*float64 {
	out := map[string]*float64{}
	for _, issn := range issns {
		if issn != "" {
			out[issn] = f.impactFactors[issn]
		}
	}
	return out
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func paragraph(docID, articleID, text string, score float64) domain.RetrievedContext {
	return domain.RetrievedContext{
		ArticleID:   articleID,
		DOI:         "10.1000/" + articleID,
		Title:       "Title of " + articleID,
		Journal:     "0028-0836",
		Section:     "Results",
		Text:        text,
		DocumentID:  docID,
		Score:       score,
		ArticleType: "research-article",
	}
}
