// Package rest exposes the retrieval pipeline over HTTP.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"unicode/utf8"

	"scholar-retriever/domain"
	"scholar-retriever/logger"
	"scholar-retriever/query"
	"scholar-retriever/usecase"
)

// codeNoDBEntries flags a retrieval that matched nothing, so clients
// can distinguish it from an actual backend failure.
const codeNoDBEntries = 1

const (
	defaultRetrieverK    = 100
	defaultRerankerK     = 10
	defaultNumberResults = 100
	maxNumberResults     = 10000
)

var (
	datePattern    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	journalPattern = regexp.MustCompile(`^\d{4}-\d{3}[0-9X]$`)
)

type Handler struct {
	retrieve     *usecase.RetrieveParagraphsUsecase
	count        *usecase.ArticleCountUsecase
	listing      *usecase.ArticleListingUsecase
	queryMaxSize int
}

func NewHandler(
	retrieve *usecase.RetrieveParagraphsUsecase,
	count *usecase.ArticleCountUsecase,
	listing *usecase.ArticleListingUsecase,
	queryMaxSize int,
) *Handler {
	return &Handler{
		retrieve:     retrieve,
		count:        count,
		listing:      listing,
		queryMaxSize: queryMaxSize,
	}
}

type errorDetail struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Detail errorDetail `json:"detail"`
}

type messageResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Error("encode response failed", "err", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, messageResponse{Detail: detail})
}

func writeCoded(w http.ResponseWriter, status, code int, detail string) {
	writeJSON(w, status, errorResponse{Detail: errorDetail{Code: code, Detail: detail}})
}

// Retrieval answers a free-text query with the most relevant fused
// paragraph records.
func (h *Handler) Retrieval(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	queryText := params.Get("query")
	topics, regions := params["topics"], params["regions"]
	if queryText == "" && len(topics) == 0 && len(regions) == 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Please provide a query, or at least one topic or region.")
		return
	}
	if runeCount := utf8.RuneCountInString(queryText); runeCount > h.queryMaxSize {
		writeMessage(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(
			"Query string has %d characters. Maximum allowed is %d.", runeCount, h.queryMaxSize))
		return
	}

	retrieverK, err := intParam(params.Get("retriever_k"), defaultRetrieverK)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "retriever_k must be an integer.")
		return
	}
	rerankerK, err := intParam(params.Get("reranker_k"), defaultRerankerK)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "reranker_k must be an integer.")
		return
	}
	useReranker, err := boolParam(params.Get("use_reranker"), true)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "use_reranker must be a boolean.")
		return
	}

	facets, errMsg := facetsFromParams(params)
	if errMsg != "" {
		writeMessage(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	records, err := h.retrieve.Execute(r.Context(), usecase.RetrievalRequest{
		Query:       queryText,
		Topics:      topics,
		Regions:     regions,
		RetrieverK:  retrieverK,
		RerankerK:   rerankerK,
		UseReranker: useReranker,
		DBFilter:    facets.FilterQuery(),
	})
	if err != nil {
		h.writeRetrievalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// ArticleCount returns the number of distinct articles matching the
// topic, region and facet criteria.
func (h *Handler) ArticleCount(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	facets, errMsg := facetsFromParams(params)
	if errMsg != "" {
		writeMessage(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	resolveHierarchy, err := boolParam(params.Get("resolve_hierarchy"), false)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "resolve_hierarchy must be a boolean.")
		return
	}

	count, err := h.count.Execute(r.Context(), params["topics"], params["regions"], facets, resolveHierarchy)
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeMessage(w, http.StatusUnprocessableEntity, "Please provide at least one region or topic.")
		return
	}
	if err != nil {
		logger.L().Error("article count failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Article count failed.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"article_count": count})
}

type listingResponse struct {
	Items []domain.ArticleMetadata `json:"items"`
	Total int                      `json:"total"`
}

// ArticleListing returns the fused metadata of the distinct articles
// matching the criteria, best hit per article.
func (h *Handler) ArticleListing(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	facets, errMsg := facetsFromParams(params)
	if errMsg != "" {
		writeMessage(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	numberResults, err := intParam(params.Get("number_results"), defaultNumberResults)
	if err != nil || numberResults < 1 || numberResults > maxNumberResults {
		writeMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf(
			"number_results must be an integer between 1 and %d.", maxNumberResults))
		return
	}
	sortByDate, err := boolParam(params.Get("sort_by_date"), false)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "sort_by_date must be a boolean.")
		return
	}
	resolveHierarchy, err := boolParam(params.Get("resolve_hierarchy"), false)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "resolve_hierarchy must be a boolean.")
		return
	}

	records, err := h.listing.Execute(r.Context(), usecase.ListingRequest{
		Topics:           params["topics"],
		Regions:          params["regions"],
		Facets:           facets,
		NumberResults:    numberResults,
		SortByDate:       sortByDate,
		ResolveHierarchy: resolveHierarchy,
	})
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeMessage(w, http.StatusUnprocessableEntity, "Please provide at least one region or topic.")
		return
	}
	if errors.Is(err, domain.ErrNoResults) {
		writeCoded(w, http.StatusInternalServerError, codeNoDBEntries, domain.ErrNoResults.Error())
		return
	}
	if err != nil {
		logger.L().Error("article listing failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Article listing failed.")
		return
	}

	writeJSON(w, http.StatusOK, listingResponse{Items: records, Total: len(records)})
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeRetrievalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoResults):
		writeCoded(w, http.StatusInternalServerError, codeNoDBEntries, domain.ErrNoResults.Error())
	case errors.Is(err, domain.ErrInvalidQuery):
		writeMessage(w, http.StatusUnprocessableEntity, domain.ErrInvalidQuery.Error())
	default:
		logger.L().Error("retrieval failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Retrieval failed.")
	}
}

// facetsFromParams reads the shared filter parameters, validating date
// and ISSN formats. The second return value is a client error message,
// empty when the facets are valid.
func facetsFromParams(params map[string][]string) (query.Facets, string) {
	get := func(key string) string {
		values := params[key]
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}

	facets := query.Facets{
		ArticleTypes: params["article_types"],
		Authors:      params["authors"],
		Journals:     params["journals"],
		DateFrom:     get("date_from"),
		DateTo:       get("date_to"),
	}

	for _, journal := range facets.Journals {
		if !journalPattern.MatchString(journal) {
			return query.Facets{}, fmt.Sprintf("Journal %q is not a valid ISSN. Format: XXXX-XXXX.", journal)
		}
	}
	if facets.DateFrom != "" && !datePattern.MatchString(facets.DateFrom) {
		return query.Facets{}, "date_from must have the format YYYY-MM-DD."
	}
	if facets.DateTo != "" && !datePattern.MatchString(facets.DateTo) {
		return query.Facets{}, "date_to must have the format YYYY-MM-DD."
	}
	return facets, ""
}

func intParam(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

func boolParam(raw string, defaultValue bool) (bool, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(raw)
}
