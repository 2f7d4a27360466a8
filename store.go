package docmap

import (
	"context"

	"github.com/kailas-cloud/docmap/internal/store"
)

// Values is the raw field payload exchanged with the document store.
type Values map[string]any

// clone returns a shallow copy of the values.
func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// SearchRequest carries the parameters of one search call against the store.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
	// Sort is a store-specific sort expression.
	Sort string
	// CheckAtLeast asks the store to examine at least this many documents
	// for an accurate match estimate.
	CheckAtLeast int
}

// StoreSearchResult is one page of raw hits returned by the store.
type StoreSearchResult struct {
	Items            []Values
	Total            int
	MatchesEstimated int
	Aggregations     map[string]any
}

// StoreClient is the narrow contract every document-store backend fulfils.
// Index and Update report ErrSchemaPrecondition when the index's
// provisioned schema rejects the document shape; ProvisionSchema must be
// idempotent so the Manager's provision-and-retry step is safe to repeat.
type StoreClient interface {
	// Index writes doc at path and returns the (possibly generated)
	// document id.
	Index(ctx context.Context, path, id string, doc Values) (string, error)
	// ProvisionSchema registers the schema definition for the index at path.
	ProvisionSchema(ctx context.Context, path string, definition Values) error
	// Fetch returns the document by id. A volatile fetch requests the
	// store's strongest available read consistency.
	Fetch(ctx context.Context, path, id string, volatile bool) (Values, error)
	// Update rewrites the document at its existing location.
	Update(ctx context.Context, path, id string, doc Values) error
	// Search runs a query against the index at path.
	Search(ctx context.Context, path string, req SearchRequest) (*StoreSearchResult, error)
	// Remove deletes the document; ErrNotFound if it no longer exists.
	Remove(ctx context.Context, path, id string) error
}

// storeAdapter bridges an internal store client to the public StoreClient.
type storeAdapter struct {
	inner store.Client
}

func (a *storeAdapter) Index(ctx context.Context, path, id string, doc Values) (string, error) {
	return a.inner.Index(ctx, path, id, store.Values(doc))
}

func (a *storeAdapter) ProvisionSchema(ctx context.Context, path string, definition Values) error {
	return a.inner.ProvisionSchema(ctx, path, store.Values(definition))
}

func (a *storeAdapter) Fetch(ctx context.Context, path, id string, volatile bool) (Values, error) {
	doc, err := a.inner.Fetch(ctx, path, id, volatile)
	if err != nil {
		return nil, err
	}
	return Values(doc), nil
}

func (a *storeAdapter) Update(ctx context.Context, path, id string, doc Values) error {
	return a.inner.Update(ctx, path, id, store.Values(doc))
}

func (a *storeAdapter) Search(ctx context.Context, path string, req SearchRequest) (*StoreSearchResult, error) {
	res, err := a.inner.Search(ctx, path, store.SearchRequest{
		Query:        req.Query,
		Limit:        req.Limit,
		Offset:       req.Offset,
		Sort:         req.Sort,
		CheckAtLeast: req.CheckAtLeast,
	})
	if err != nil {
		return nil, err
	}
	items := make([]Values, len(res.Items))
	for i := range res.Items {
		items[i] = Values(res.Items[i])
	}
	return &StoreSearchResult{
		Items:            items,
		Total:            res.Total,
		MatchesEstimated: res.MatchesEstimated,
		Aggregations:     res.Aggregations,
	}, nil
}

func (a *storeAdapter) Remove(ctx context.Context, path, id string) error {
	return a.inner.Remove(ctx, path, id)
}
