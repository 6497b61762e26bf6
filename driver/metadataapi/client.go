// Package metadataapi fetches on the fly article metadata from public
// scholarly APIs.
package metadataapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultCitationURLFormat = "https://api.semanticscholar.org/graph/v1/paper/%s?fields=citationCount"
	defaultJournalURLFormat  = "https://portal.issn.org/resource/ISSN/%s?format=json"

	maxAttempts = 3
)

// ErrNotFound is returned when the external API has no record for the
// identifier.
var ErrNotFound = errors.New("metadata api: not found")

type Client struct {
	httpClient *http.Client

	citationURLFormat string
	journalURLFormat  string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		citationURLFormat: defaultCitationURLFormat,
		journalURLFormat:  defaultJournalURLFormat,
	}
}

func newRetryBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.Multiplier = 2
	return bo
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	bo := newRetryBackoff()
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(bo.NextBackOff()):
			}
		}

		retryable, err := c.getJSONOnce(ctx, url, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

func (c *Client) getJSONOnce(ctx context.Context, url string, out any) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("metadata api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("metadata api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, ErrNotFound
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, fmt.Errorf("metadata api: %s: status %d", url, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("metadata api: %s: status %d: %s", url, resp.StatusCode, detail)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("metadata api: decode %s: %w", url, err)
	}
	return false, nil
}

// CitationCount returns how often the article behind the DOI has been
// cited according to Semantic Scholar.
func (c *Client) CitationCount(ctx context.Context, doi string) (int, error) {
	var out struct {
		CitationCount int `json:"citationCount"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf(c.citationURLFormat, doi), &out); err != nil {
		return 0, err
	}
	return out.CitationCount, nil
}

type issnRecord struct {
	Graph []struct {
		ID   string          `json:"@id"`
		Name json.RawMessage `json:"name"`
	} `json:"@graph"`
}

// JournalName resolves the registered journal name behind an ISSN from
// the ISSN portal. The record's name field can be a string or a list of
// historical names, in which case the most recent entry wins.
func (c *Client) JournalName(ctx context.Context, issn string) (string, error) {
	var out issnRecord
	if err := c.getJSON(ctx, fmt.Sprintf(c.journalURLFormat, issn), &out); err != nil {
		return "", err
	}

	for _, node := range out.Graph {
		if node.ID != "resource/ISSN/"+issn || len(node.Name) == 0 {
			continue
		}

		var single string
		if err := json.Unmarshal(node.Name, &single); err == nil {
			return single, nil
		}
		var names []string
		if err := json.Unmarshal(node.Name, &names); err == nil && len(names) > 0 {
			return names[len(names)-1], nil
		}
	}
	return "", ErrNotFound
}
