package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-retriever/domain"
	"scholar-retriever/driver"
	"scholar-retriever/query"
)

type fakeStoreDriver struct {
	searchResp *driver.SearchResponse
	bm25Hits   []driver.ParagraphHit
	count      int64
	doc        map[string]any
	err        error

	indexExists bool

	lastIndex       string
	lastQuery       map[string]any
	lastSize        int
	createdIndex    string
	createdMappings map[string]any
}

func (f *fakeStoreDriver) Search(_ context.Context, index string, query map[string]any, size int, _ map[string]any) (*driver.SearchResponse, error) {
	f.lastIndex, f.lastQuery, f.lastSize = index, query, size
	if f.err != nil {
		return nil, f.err
	}
	return f.searchResp, nil
}

func (f *fakeStoreDriver) BM25Search(_ context.Context, index, _ string, _ map[string]any, k int) ([]driver.ParagraphHit, error) {
	f.lastIndex, f.lastSize = index, k
	if f.err != nil {
		return nil, f.err
	}
	return f.bm25Hits, nil
}

func (f *fakeStoreDriver) CountDocuments(_ context.Context, index string, query map[string]any) (int64, error) {
	f.lastIndex, f.lastQuery = index, query
	return f.count, f.err
}

func (f *fakeStoreDriver) GetDocument(_ context.Context, _, _ string) (map[string]any, error) {
	return f.doc, f.err
}

func (f *fakeStoreDriver) Exists(_ context.Context, _, _ string) (bool, error) {
	return f.doc != nil, f.err
}

func (f *fakeStoreDriver) AddDocument(_ context.Context, _, _ string, _ map[string]any) error {
	return f.err
}

func (f *fakeStoreDriver) BulkIndex(_ context.Context, _ string, _ []driver.BulkEntry) error {
	return f.err
}

func (f *fakeStoreDriver) CreateIndex(_ context.Context, index string, _, mappings map[string]any) error {
	f.createdIndex, f.createdMappings = index, mappings
	return f.err
}

func (f *fakeStoreDriver) IndexExists(_ context.Context, _ string) (bool, error) {
	return f.indexExists, f.err
}

func sampleHit(id string, score float64) driver.ParagraphHit {
	return driver.ParagraphHit{
		ID:    id,
		Score: score,
		Source: driver.ParagraphSource{
			ArticleID:   "article-" + id,
			Title:       "Some title",
			Authors:     []string{"Doe, Jane"},
			DOI:         "10.1000/" + id,
			Journal:     "0028-0836",
			Section:     "Results",
			ParagraphID: 3,
			Text:        "paragraph text",
			ArticleType: "research-article",
		},
	}
}

func TestDocumentStoreGatewayBM25SearchConvertsHits(t *testing.T) {
	fake := &fakeStoreDriver{bm25Hits: []driver.ParagraphHit{sampleHit("d1", 4.2)}}
	gw := NewDocumentStoreGateway(fake)

	contexts, err := gw.BM25Search(context.Background(), "paragraphs", "cortex", nil, 10)
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	c := contexts[0]
	assert.Equal(t, "article-d1", c.ArticleID)
	assert.Equal(t, "d1", c.DocumentID)
	assert.Equal(t, 4.2, c.Score)
	assert.Equal(t, "10.1000/d1", c.DOI)
	assert.Equal(t, 3, c.ParagraphID)
	assert.Equal(t, 10, fake.lastSize)
}

func TestDocumentStoreGatewayBM25SearchWrapsError(t *testing.T) {
	gw := NewDocumentStoreGateway(&fakeStoreDriver{err: errors.New("connection refused")})

	_, err := gw.BM25Search(context.Background(), "paragraphs", "cortex", nil, 10)
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "BM25Search", storeErr.Op)
	assert.Contains(t, storeErr.Err, "connection refused")
}

func TestDocumentStoreGatewaySearch(t *testing.T) {
	resp := &driver.SearchResponse{Aggregations: map[string]any{"article_count": map[string]any{"value": 7.0}}}
	resp.Hits.Total.Value = 12
	resp.Hits.Hits = []driver.ParagraphHit{sampleHit("a", 1.0), sampleHit("b", 0.5)}

	gw := NewDocumentStoreGateway(&fakeStoreDriver{searchResp: resp})
	res, err := gw.Search(context.Background(), "paragraphs", map[string]any{"query": map[string]any{}}, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(12), res.Total)
	assert.Len(t, res.Contexts, 2)
	assert.NotNil(t, res.Aggregations["article_count"])
}

func TestDocumentStoreGatewaySearchEscapesQueryString(t *testing.T) {
	store := &fakeStoreDriver{searchResp: &driver.SearchResponse{}}
	gw := NewDocumentStoreGateway(store)

	q := map[string]any{"query": query.QueryStringClause("ph>7 and ca2+")}
	_, err := gw.Search(context.Background(), "paragraphs", q, 10, nil)
	require.NoError(t, err)

	clause := store.lastQuery["query"].(map[string]any)["query_string"].(map[string]any)
	assert.Equal(t, `ph7 and ca2\+`, clause["query"])
}

func TestDocumentStoreGatewayCountDocuments(t *testing.T) {
	gw := NewDocumentStoreGateway(&fakeStoreDriver{count: 42})
	count, err := gw.CountDocuments(context.Background(), "paragraphs", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestEnsureParagraphsIndex(t *testing.T) {
	t.Run("creates the index when it is missing", func(t *testing.T) {
		store := &fakeStoreDriver{}
		gw := NewDocumentStoreGateway(store)

		require.NoError(t, gw.EnsureParagraphsIndex(context.Background(), "paragraphs"))

		assert.Equal(t, "paragraphs", store.createdIndex)
		props, ok := store.createdMappings["properties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"type": "keyword"}, props["article_id"])
	})

	t.Run("no-op when the index already exists", func(t *testing.T) {
		store := &fakeStoreDriver{indexExists: true}
		gw := NewDocumentStoreGateway(store)

		require.NoError(t, gw.EnsureParagraphsIndex(context.Background(), "paragraphs"))
		assert.Empty(t, store.createdIndex)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		gw := NewDocumentStoreGateway(&fakeStoreDriver{err: errors.New("connection refused")})

		err := gw.EnsureParagraphsIndex(context.Background(), "paragraphs")
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
	})
}
