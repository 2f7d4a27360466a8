package docmap

// SearchResults is one page of hydrated models plus the store's match
// accounting for the whole query.
type SearchResults struct {
	items            []*Model
	total            int
	matchesEstimated int
	aggregations     map[string]any
}

func newSearchResults(items []*Model, raw *StoreSearchResult) *SearchResults {
	return &SearchResults{
		items:            items,
		total:            raw.Total,
		matchesEstimated: raw.MatchesEstimated,
		aggregations:     raw.Aggregations,
	}
}

// Items returns the models on this page, in store order.
func (r *SearchResults) Items() []*Model { return r.items }

// Len returns the number of models on this page.
func (r *SearchResults) Len() int { return len(r.items) }

// Total is the exact number of matches the store counted.
func (r *SearchResults) Total() int { return r.total }

// MatchesEstimated is the store's estimate of total matches, which may
// exceed Total when the store stopped counting early.
func (r *SearchResults) MatchesEstimated() int { return r.matchesEstimated }

// Aggregations returns store-computed aggregations, nil when the query
// requested none.
func (r *SearchResults) Aggregations() map[string]any { return r.aggregations }
