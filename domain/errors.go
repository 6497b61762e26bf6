package domain

import "errors"

// ErrInvalidQuery is returned when a caller supplies neither topics nor
// regions to a keyword search. Client-input error, never retried.
var ErrInvalidQuery = errors.New("please provide at least one topic or region")

// ErrNoResults marks the valid outcome of a retrieval that matched nothing
// after length filtering. Upstream maps it to a "no document entries" code,
// distinct from a store failure.
var ErrNoResults = errors.New("no document found, modify the filters or the query and try again")

// StoreError represents a failed document store call.
type StoreError struct {
	Op  string
	Err string
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err
}

// RerankError represents a failed reranking API call.
type RerankError struct {
	Op  string
	Err string
}

func (e *RerankError) Error() string {
	return e.Op + ": " + e.Err
}
