// Package query builds document store queries from search facets. All
// builders are pure and deterministic so query shapes can be asserted
// against golden outputs.
package query

import (
	"scholar-retriever/domain"
)

// maxQueryTerms is the engine's boolean clause ceiling. Each expanded
// region contributes two clauses so the expansion is capped accordingly.
const maxQueryTerms = 1024

// RegionExpander turns a region name into the names of the region and
// all of its descendants.
type RegionExpander interface {
	ExpandRegionName(name string) []string
}

func phraseMatch(term string) map[string]any {
	return map[string]any{
		"multi_match": map[string]any{
			"query":  term,
			"type":   "phrase",
			"fields": []string{"title", "text"},
		},
	}
}

// BuildSearchQuery translates topics, regions and an optional filter
// clause list into a boolean query. Topics are AND matched, region
// terms are OR matched within a single should group, and filter clauses
// are spliced in unchanged after the region group.
//
// When expander is non-nil every region is replaced by itself plus its
// descendant region names before matching. The expansion is truncated,
// keeping the first entries, so that 2*len(expanded)+len(topics) stays
// within the engine clause ceiling.
func BuildSearchQuery(topics, regions []string, filterQuery map[string]any, expander RegionExpander) (map[string]any, error) {
	if len(topics) == 0 && len(regions) == 0 {
		return nil, domain.ErrInvalidQuery
	}

	must := make([]any, 0, len(topics)+2)
	for _, topic := range topics {
		must = append(must, phraseMatch(topic))
	}

	expanded := regions
	if expander != nil && len(regions) > 0 {
		expanded = make([]string, 0, len(regions))
		for _, region := range regions {
			expanded = append(expanded, expander.ExpandRegionName(region)...)
		}
		maxLen := maxQueryTerms - len(topics)
		if maxLen < 0 {
			maxLen = 0
		}
		if 2*len(expanded) > maxLen {
			expanded = expanded[:maxLen/2]
		}
	}

	if len(regions) > 0 {
		should := make([]any, 0, len(expanded))
		for _, region := range expanded {
			should = append(should, phraseMatch(region))
		}
		must = append(must, map[string]any{
			"bool": map[string]any{"should": should},
		})
	}

	must = append(must, mustClauses(filterQuery)...)

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
	}, nil
}

// mustClauses extracts the clause list from a {bool: {must: [...]}}
// shaped filter, tolerating nil and malformed input.
func mustClauses(filterQuery map[string]any) []any {
	if filterQuery == nil {
		return nil
	}
	boolPart, ok := filterQuery["bool"].(map[string]any)
	if !ok {
		return nil
	}
	clauses, ok := boolPart["must"].([]any)
	if !ok {
		return nil
	}
	return clauses
}
