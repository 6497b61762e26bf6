package port

import "context"

// MetadataFetcher resolves on the fly metadata for retrieved contexts.
// Lookups are lenient: an entry that cannot be resolved maps to nil
// instead of failing the whole retrieval.
type MetadataFetcher interface {
	// Abstracts reconstructs the abstract of each article id.
	Abstracts(ctx context.Context, articleIDs []string) map[string]*string
	// CitationCounts resolves citation counts per DOI.
	CitationCounts(ctx context.Context, dois []string) map[string]*int
	// JournalNames resolves journal names per ISSN.
	JournalNames(ctx context.Context, issns []string) map[string]*string
	// ImpactFactors resolves journal impact factors per ISSN.
	ImpactFactors(ctx context.Context, issns []string) map[string]*float64
}

// MetadataCache is a read-through cache in front of the external
// metadata providers.
type MetadataCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}
