// Package elasticsearch is a thin HTTP client for an
// Elasticsearch/OpenSearch-compatible document store. It speaks the
// subset of the REST API the retrieval pipeline needs.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scholar-retriever/driver"
)

// ErrNotFound is returned when a document or index does not exist.
var ErrNotFound = errors.New("document store: not found")

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("document store: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("document store: build request %s %s: %w", method, path, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("document store: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("document store: %s %s: status %d: %s", method, path, resp.StatusCode, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("document store: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// Search runs a structured query. A caller supplied {"query": ...}
// wrapper is unwrapped so both wrapped and bare queries work.
func (c *Client) Search(ctx context.Context, index string, query map[string]any, size int, aggs map[string]any) (*driver.SearchResponse, error) {
	body := map[string]any{"size": size}
	if query != nil {
		if inner, ok := query["query"]; ok {
			body["query"] = inner
		} else {
			body["query"] = query
		}
	}
	if aggs != nil {
		body["aggs"] = aggs
	}

	var out driver.SearchResponse
	if err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(index)+"/_search", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BM25Search matches queryText against the text field, optionally
// constrained by a structured filter, and returns up to k hits.
func (c *Client) BM25Search(ctx context.Context, index, queryText string, filterQuery map[string]any, k int) ([]driver.ParagraphHit, error) {
	boolQuery := map[string]any{
		"must": map[string]any{"match": map[string]any{"text": queryText}},
	}
	if filterQuery != nil {
		boolQuery["filter"] = filterQuery
	}

	res, err := c.Search(ctx, index, map[string]any{"bool": boolQuery}, k, nil)
	if err != nil {
		return nil, err
	}
	return res.Hits.Hits, nil
}

func (c *Client) CountDocuments(ctx context.Context, index string, query map[string]any) (int64, error) {
	var body map[string]any
	if query != nil {
		if inner, ok := query["query"]; ok {
			body = map[string]any{"query": inner}
		} else {
			body = map[string]any{"query": query}
		}
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(index)+"/_count", body, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) GetDocument(ctx context.Context, index, docID string) (map[string]any, error) {
	var out struct {
		Found  bool           `json:"found"`
		Source map[string]any `json:"_source"`
	}
	path := "/" + url.PathEscape(index) + "/_doc/" + url.PathEscape(docID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, ErrNotFound
	}
	return out.Source, nil
}

func (c *Client) Exists(ctx context.Context, index, docID string) (bool, error) {
	path := "/" + url.PathEscape(index) + "/_doc/" + url.PathEscape(docID)
	err := c.do(ctx, http.MethodHead, path, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddDocument indexes one document, refusing to overwrite an existing
// id.
func (c *Client) AddDocument(ctx context.Context, index, docID string, doc map[string]any) error {
	path := "/" + url.PathEscape(index) + "/_create/" + url.PathEscape(docID)
	return c.do(ctx, http.MethodPut, path, doc, nil)
}

// BulkIndex uploads documents with the NDJSON bulk protocol.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []driver.BulkEntry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": doc.ID}}
		if err := enc.Encode(action); err != nil {
			return fmt.Errorf("document store: encode bulk action: %w", err)
		}
		if err := enc.Encode(doc.Source); err != nil {
			return fmt.Errorf("document store: encode bulk source: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_bulk", &buf)
	if err != nil {
		return fmt.Errorf("document store: build bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("document store: bulk: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("document store: bulk: status %d: %s", resp.StatusCode, detail)
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("document store: decode bulk response: %w", err)
	}
	if out.Errors {
		return fmt.Errorf("document store: bulk: some items failed")
	}
	return nil
}

func (c *Client) CreateIndex(ctx context.Context, index string, settings, mappings map[string]any) error {
	body := map[string]any{}
	if settings != nil {
		body["settings"] = settings
	}
	if mappings != nil {
		body["mappings"] = mappings
	}
	return c.do(ctx, http.MethodPut, "/"+url.PathEscape(index), body, nil)
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	err := c.do(ctx, http.MethodHead, "/"+url.PathEscape(index), nil, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
