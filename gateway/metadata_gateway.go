package gateway

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"scholar-retriever/driver"
	"scholar-retriever/logger"
	"scholar-retriever/port"
	"scholar-retriever/utils"
	appOtel "scholar-retriever/utils/otel"
)

// maxLookupConcurrency bounds the parallel fan-out against the store
// and the external APIs.
const maxLookupConcurrency = 8

const abstractSection = "Abstract"

// CitationDriver resolves citation counts from an external API.
type CitationDriver interface {
	CitationCount(ctx context.Context, doi string) (int, error)
}

// JournalDriver resolves journal names from an external registry.
type JournalDriver interface {
	JournalName(ctx context.Context, issn string) (string, error)
}

// MetadataGateway resolves on the fly metadata. Abstracts and impact
// factors come from the document store, citation counts and journal
// names from external APIs behind an optional read-through cache.
// Every lookup is lenient, a failed entry resolves to nil.
type MetadataGateway struct {
	store           port.DocumentStore
	citations       CitationDriver
	journals        JournalDriver
	cache           port.MetadataCache
	externalAPIs    bool
	indexParagraphs string
	indexJournals   string
}

func NewMetadataGateway(
	store port.DocumentStore,
	citations CitationDriver,
	journals JournalDriver,
	cache port.MetadataCache,
	externalAPIs bool,
	indexParagraphs, indexJournals string,
) *MetadataGateway {
	return &MetadataGateway{
		store:           store,
		citations:       citations,
		journals:        journals,
		cache:           cache,
		externalAPIs:    externalAPIs,
		indexParagraphs: indexParagraphs,
		indexJournals:   indexJournals,
	}
}

// Abstracts reconstructs article abstracts by stitching the stored
// Abstract section paragraphs back together in paragraph order.
func (g *MetadataGateway) Abstracts(ctx context.Context, articleIDs []string) map[string]*string {
	results := make(map[string]*string, len(articleIDs))
	var mu sync.Mutex

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxLookupConcurrency)
	unique := uniqueKeys(articleIDs)
	recordLookups(ctx, "abstract", len(unique))
	for _, articleID := range unique {
		grp.Go(func() error {
			abstract := g.fetchAbstract(gctx, articleID)
			mu.Lock()
			results[articleID] = abstract
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return results
}

func (g *MetadataGateway) fetchAbstract(ctx context.Context, articleID string) *string {
	searchQuery := map[string]any{
		"bool": map[string]any{
			"must": []any{
				map[string]any{"term": map[string]any{"article_id": articleID}},
				map[string]any{"term": map[string]any{"section": abstractSection}},
			},
		},
	}

	res, err := g.store.Search(ctx, g.indexParagraphs, searchQuery, 100, nil)
	if err != nil {
		logger.Ctx(ctx).Warn("abstract reconstruction failed",
			"article_id", articleID, "error", err.Error())
		return nil
	}
	if len(res.Contexts) == 0 {
		return nil
	}

	paragraphs := res.Contexts
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].ParagraphID < paragraphs[j].ParagraphID
	})

	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	abstract := strings.Join(texts, " ")
	return &abstract
}

// CitationCounts resolves citation counts per DOI via the external API,
// nil for every DOI when external lookups are disabled.
func (g *MetadataGateway) CitationCounts(ctx context.Context, dois []string) map[string]*int {
	results := make(map[string]*int, len(dois))
	unique := uniqueKeys(dois)
	for _, doi := range unique {
		results[doi] = nil
	}
	if !g.externalAPIs || g.citations == nil {
		return results
	}
	recordLookups(ctx, "citation", len(unique))

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxLookupConcurrency)
	for _, doi := range unique {
		grp.Go(func() error {
			if cached, ok := g.cachedInt(gctx, "citation:"+doi); ok {
				mu.Lock()
				results[doi] = cached
				mu.Unlock()
				return nil
			}

			count, err := g.citations.CitationCount(gctx, doi)
			if err != nil {
				logger.Ctx(gctx).Warn("citation count lookup failed",
					"doi", doi, "error", err.Error())
				return nil
			}
			g.cacheSet(gctx, "citation:"+doi, strconv.Itoa(count))
			mu.Lock()
			results[doi] = &count
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return results
}

// JournalNames resolves journal names per ISSN via the external
// registry, nil for every ISSN when external lookups are disabled.
func (g *MetadataGateway) JournalNames(ctx context.Context, issns []string) map[string]*string {
	results := make(map[string]*string, len(issns))
	unique := uniqueKeys(issns)
	for _, issn := range unique {
		results[issn] = nil
	}
	if !g.externalAPIs || g.journals == nil {
		return results
	}
	recordLookups(ctx, "journal_name", len(unique))

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxLookupConcurrency)
	for _, issn := range unique {
		grp.Go(func() error {
			if cached, ok := g.cachedString(gctx, "journal_name:"+issn); ok {
				mu.Lock()
				results[issn] = cached
				mu.Unlock()
				return nil
			}

			name, err := g.journals.JournalName(gctx, lookupISSN(issn))
			if err != nil {
				logger.Ctx(gctx).Warn("journal name lookup failed",
					"issn", issn, "error", err.Error())
				return nil
			}
			g.cacheSet(gctx, "journal_name:"+issn, name)
			mu.Lock()
			results[issn] = &name
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return results
}

// ImpactFactors resolves journal impact factors from the journals
// index, nil when the journal is unknown or no journals index is
// configured.
func (g *MetadataGateway) ImpactFactors(ctx context.Context, issns []string) map[string]*float64 {
	results := make(map[string]*float64, len(issns))
	unique := uniqueKeys(issns)
	for _, issn := range unique {
		results[issn] = nil
	}
	if g.indexJournals == "" {
		return results
	}
	recordLookups(ctx, "impact_factor", len(unique))

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxLookupConcurrency)
	for _, issn := range unique {
		grp.Go(func() error {
			doc, err := g.store.GetDocument(gctx, g.indexJournals, lookupISSN(issn))
			if err != nil {
				logger.Ctx(gctx).Warn("impact factor lookup failed",
					"issn", issn, "error", err.Error())
				return nil
			}
			journal, err := decodeJournal(doc)
			if err != nil || journal.ImpactFactor == nil {
				return nil
			}
			mu.Lock()
			results[issn] = journal.ImpactFactor
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return results
}

func (g *MetadataGateway) cachedString(ctx context.Context, key string) (*string, bool) {
	if g.cache == nil {
		return nil, false
	}
	value, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		logger.L().Warn("metadata cache read failed", "key", key, "error", err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &value, true
}

func (g *MetadataGateway) cachedInt(ctx context.Context, key string) (*int, bool) {
	value, ok := g.cachedString(ctx, key)
	if !ok {
		return nil, false
	}
	count, err := strconv.Atoi(*value)
	if err != nil {
		return nil, false
	}
	return &count, true
}

func (g *MetadataGateway) cacheSet(ctx context.Context, key, value string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, key, value); err != nil {
		logger.L().Warn("metadata cache write failed", "key", key, "error", err.Error())
	}
}

// lookupISSN derives the dashed XXXX-XXXX lookup key from the raw
// journal field. The journals index and the external registry are keyed
// by formatted ISSNs while the paragraph source keeps them raw. When a
// source holds several ISSNs the first one is used; unformattable input
// falls back to the raw value.
func lookupISSN(raw string) string {
	formatted, err := utils.FormatISSN(raw)
	if err != nil || formatted == "" {
		return raw
	}
	if i := strings.IndexByte(formatted, ' '); i >= 0 {
		formatted = formatted[:i]
	}
	return formatted
}

func decodeJournal(doc map[string]any) (*driver.JournalSource, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var journal driver.JournalSource
	if err := json.Unmarshal(payload, &journal); err != nil {
		return nil, err
	}
	return &journal, nil
}

func recordLookups(ctx context.Context, source string, count int) {
	m := appOtel.Metrics
	if m == nil || count == 0 {
		return
	}
	m.MetadataLookupsTotal.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("source", source)))
}

// uniqueKeys deduplicates while keeping first occurrence order and
// dropping empty keys.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
