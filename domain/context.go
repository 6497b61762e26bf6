package domain

// RetrievedContext is a single ranked paragraph hit coming out of the
// document store. Field names follow the paragraph index mapping.
type RetrievedContext struct {
	ArticleID   string   `json:"article_id"`
	DOI         string   `json:"doi"`
	PubmedID    string   `json:"pubmed_id"`
	PMCID       string   `json:"pmc_id"`
	ArxivID     string   `json:"arxiv_id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Journal     string   `json:"journal"` // ISSN, empty when the article has none
	Date        string   `json:"date"`
	Section     string   `json:"section"`
	ParagraphID int      `json:"paragraph_id"`
	Text        string   `json:"text"`
	ArticleType string   `json:"article_type"`
	DocumentID  string   `json:"document_id"`
	Score       float64  `json:"score"`

	// Abstract is attached after retrieval, before fusion. Nil until then,
	// and possibly nil afterwards when no abstract could be reconstructed.
	Abstract *string `json:"abstract,omitempty"`
}

// RerankResult holds the outcome of a reranking call. The four slices are
// parallel: element i of each describes the same context.
type RerankResult struct {
	Contexts []RetrievedContext
	Texts    []string
	Scores   []float64 // descending
	Indices  []int     // position each context held before reranking
}

// ParagraphMetadata is the fully fused record returned for one context.
// Nullable fields stay nil when the corresponding metadata source had no
// entry or external enrichment is disabled.
type ParagraphMetadata struct {
	ArticleTitle   string   `json:"article_title"`
	Section        string   `json:"section"`
	Paragraph      string   `json:"paragraph"`
	JournalISSN    *string  `json:"journal_issn"`
	Date           *string  `json:"date"`
	ArticleID      string   `json:"article_id"`
	DSDocumentID   string   `json:"ds_document_id"`
	ArticleDOI     *string  `json:"article_doi"`
	PubmedID       *string  `json:"pubmed_id"`
	ArticleAuthors []string `json:"article_authors"`
	ArticleType    *string  `json:"article_type"`
	ContextID      int      `json:"context_id"`
	RerankingScore *float64 `json:"reranking_score"`
	Abstract       *string  `json:"abstract"`
	JournalName    *string  `json:"journal_name"`
	ImpactFactor   *float64 `json:"impact_factor"`
	CitedBy        *int     `json:"cited_by"`
}

// ArticleMetadata is the fused record for the article listing surface.
// Same sources as ParagraphMetadata, minus the paragraph-level fields.
type ArticleMetadata struct {
	ArticleTitle   string   `json:"article_title"`
	JournalISSN    *string  `json:"journal_issn"`
	Date           *string  `json:"date"`
	ArticleID      string   `json:"article_id"`
	ArticleDOI     *string  `json:"article_doi"`
	PubmedID       *string  `json:"pubmed_id"`
	ArticleAuthors []string `json:"article_authors"`
	ArticleType    *string  `json:"article_type"`
	Abstract       *string  `json:"abstract"`
	JournalName    *string  `json:"journal_name"`
	ImpactFactor   *float64 `json:"impact_factor"`
	CitedBy        *int     `json:"cited_by"`
}

// ArticleMetadataFrom builds the article-level record from a context hit.
// The metadata fields are filled in by fusion.
func ArticleMetadataFrom(c RetrievedContext) ArticleMetadata {
	return ArticleMetadata{
		ArticleTitle:   c.Title,
		JournalISSN:    optional(c.Journal),
		Date:           optional(c.Date),
		ArticleID:      c.ArticleID,
		ArticleDOI:     optional(c.DOI),
		PubmedID:       optional(c.PubmedID),
		ArticleAuthors: c.Authors,
		ArticleType:    optional(c.ArticleType),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
