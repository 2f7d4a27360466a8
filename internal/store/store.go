// Package store defines the contract between the mapping layer and a
// document-store backend. Implementations live in subpackages; the public
// SDK adapts this contract to its exported StoreClient interface.
package store

import (
	"context"
	"errors"
)

// Sentinel errors a backend must report through. Use errors.Is() to check.
var (
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("store: document not found")
	// ErrSchemaPrecondition signals that the target index's provisioned
	// schema does not accept the document shape yet.
	ErrSchemaPrecondition = errors.New("store: index schema precondition failed")
)

// Values is the raw field payload exchanged with the backend.
type Values map[string]any

// SearchRequest carries the parameters of a single search call.
type SearchRequest struct {
	Query        string
	Limit        int
	Offset       int
	Sort         string
	CheckAtLeast int
}

// SearchResult is one page of raw hits returned by the backend.
type SearchResult struct {
	Items            []Values
	Total            int
	MatchesEstimated int
	Aggregations     map[string]any
}

// Client is the narrow backend contract (ISP): one call per operation,
// no state shared between calls.
//
// Index and Update must fail with ErrSchemaPrecondition when the index
// schema rejects the document shape. ProvisionSchema must be idempotent:
// provisioning an already-provisioned index is success.
type Client interface {
	Index(ctx context.Context, path, id string, doc Values) (string, error)
	ProvisionSchema(ctx context.Context, path string, definition Values) error
	Fetch(ctx context.Context, path, id string, volatile bool) (Values, error)
	Update(ctx context.Context, path, id string, doc Values) error
	Search(ctx context.Context, path string, req SearchRequest) (*SearchResult, error)
	Remove(ctx context.Context, path, id string) error
}
