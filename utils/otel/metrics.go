package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for the retrieval service.
var Metrics *RetrieverMetrics

// RetrieverMetrics contains all metric instruments.
type RetrieverMetrics struct {
	SearchesTotal        metric.Int64Counter
	EmptyResultsTotal    metric.Int64Counter
	RerankCallsTotal     metric.Int64Counter
	MetadataLookupsTotal metric.Int64Counter
	ErrorsTotal          metric.Int64Counter
	SearchDuration       metric.Float64Histogram
	RerankDuration       metric.Float64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("scholar-retriever")

	searchesTotal, err := meter.Int64Counter("scholar_retriever_searches_total",
		metric.WithDescription("Total number of retrieval searches"),
	)
	if err != nil {
		return err
	}

	emptyResultsTotal, err := meter.Int64Counter("scholar_retriever_empty_results_total",
		metric.WithDescription("Total number of searches that matched no document"),
	)
	if err != nil {
		return err
	}

	rerankCallsTotal, err := meter.Int64Counter("scholar_retriever_rerank_calls_total",
		metric.WithDescription("Total number of rerank API calls"),
	)
	if err != nil {
		return err
	}

	metadataLookupsTotal, err := meter.Int64Counter("scholar_retriever_metadata_lookups_total",
		metric.WithDescription("Total number of external metadata lookups"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("scholar_retriever_errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return err
	}

	searchDuration, err := meter.Float64Histogram("scholar_retriever_search_duration_seconds",
		metric.WithDescription("Document store search duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	rerankDuration, err := meter.Float64Histogram("scholar_retriever_rerank_duration_seconds",
		metric.WithDescription("Rerank call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	Metrics = &RetrieverMetrics{
		SearchesTotal:        searchesTotal,
		EmptyResultsTotal:    emptyResultsTotal,
		RerankCallsTotal:     rerankCallsTotal,
		MetadataLookupsTotal: metadataLookupsTotal,
		ErrorsTotal:          errorsTotal,
		SearchDuration:       searchDuration,
		RerankDuration:       rerankDuration,
	}

	return nil
}
