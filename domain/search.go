package domain

// SearchResult is the outcome of a structured store query.
type SearchResult struct {
	Contexts     []RetrievedContext
	Total        int64
	Aggregations map[string]any
}

// BulkDocument is a single entry of a bulk index request.
type BulkDocument struct {
	ID     string
	Source map[string]any
}
