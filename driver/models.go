// Package driver holds the raw data shapes exchanged with external
// systems before they are converted into domain types by the gateways.
package driver

// ParagraphSource is the stored form of one paragraph document.
type ParagraphSource struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	DOI         string   `json:"doi"`
	PubmedID    string   `json:"pubmed_id"`
	PMCID       string   `json:"pmc_id"`
	ArxivID     string   `json:"arxiv_id"`
	Section     string   `json:"section"`
	Date        string   `json:"date"`
	Journal     string   `json:"journal"`
	ParagraphID int      `json:"paragraph_id"`
	Text        string   `json:"text"`
	ArticleType string   `json:"article_type"`
}

// ParagraphHit is one scored search hit.
type ParagraphHit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source ParagraphSource `json:"_source"`
}

// SearchResponse mirrors the engine's _search response envelope.
type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []ParagraphHit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]any `json:"aggregations"`
}

// BulkEntry is one document of a bulk index request.
type BulkEntry struct {
	ID     string
	Source map[string]any
}

// JournalSource is the stored form of one journals index document.
type JournalSource struct {
	ISSN         string   `json:"issn"`
	Title        string   `json:"title"`
	ImpactFactor *float64 `json:"citescore"`
}
