package query

import (
	"strings"

	"scholar-retriever/domain"
)

// Facets are the optional metadata filters accepted by the retrieval
// endpoints. Within a facet the values are OR matched; across facets
// the filters are AND matched.
type Facets struct {
	ArticleTypes []string
	Authors      []string
	Journals     []string
	DateFrom     string
	DateTo       string
}

// FilterQuery renders the facets as a {bool: {must: [...]}} clause
// list. It returns nil when no facet is set so callers can skip the
// filter entirely.
func (f Facets) FilterQuery() map[string]any {
	must := make([]any, 0, 5)
	if len(f.ArticleTypes) > 0 {
		must = append(must, map[string]any{"terms": map[string]any{"article_type": f.ArticleTypes}})
	}
	if len(f.Authors) > 0 {
		must = append(must, map[string]any{"terms": map[string]any{"authors.keyword": f.Authors}})
	}
	if len(f.Journals) > 0 {
		must = append(must, map[string]any{"terms": map[string]any{"journal": f.Journals}})
	}
	if f.DateFrom != "" {
		must = append(must, map[string]any{"range": map[string]any{"date": map[string]any{"gte": f.DateFrom}}})
	}
	if f.DateTo != "" {
		must = append(must, map[string]any{"range": map[string]any{"date": map[string]any{"lte": f.DateTo}}})
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"bool": map[string]any{"must": must}}
}

// groupTerm joins the words of a multi word phrase with AND so the
// phrase matches as a conjunction inside a query string.
func groupTerm(term string) string {
	words := strings.Fields(term)
	if len(words) <= 1 {
		return term
	}
	return "(" + strings.Join(words, " AND ") + ")"
}

// BuildQueryText combines topics and regions into a single boolean
// query string. Topics are AND joined, regions OR joined, and the two
// sides are AND combined when both are present.
func BuildQueryText(topics, regions []string) string {
	topicTerms := make([]string, 0, len(topics))
	for _, topic := range topics {
		topicTerms = append(topicTerms, groupTerm(topic))
	}
	regionTerms := make([]string, 0, len(regions))
	for _, region := range regions {
		regionTerms = append(regionTerms, groupTerm(region))
	}

	topicExpr := strings.Join(topicTerms, " AND ")
	regionExpr := strings.Join(regionTerms, " OR ")

	switch {
	case topicExpr != "" && regionExpr != "":
		return "(" + topicExpr + ") AND (" + regionExpr + ")"
	case topicExpr != "":
		return topicExpr
	default:
		return regionExpr
	}
}

// BuildFilterQuery renders the boolean topics/regions parameter form as
// an executable query. The query_string clause comes first, the facet
// filter clauses follow as independent must entries.
func BuildFilterQuery(topics, regions []string, filterQuery map[string]any) (map[string]any, error) {
	if len(topics) == 0 && len(regions) == 0 {
		return nil, domain.ErrInvalidQuery
	}

	must := []any{QueryStringClause(BuildQueryText(topics, regions))}
	must = append(must, mustClauses(filterQuery)...)

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
	}, nil
}

// QueryStringClause wraps free text into a query_string clause over the
// text field. The text is passed through raw; reserved syntax is
// escaped once, by PostprocessQuery, when the query is executed.
func QueryStringClause(queryText string) map[string]any {
	return map[string]any{
		"query_string": map[string]any{
			"default_field": "text",
			"query":         queryText,
		},
	}
}
