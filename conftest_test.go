package docmap

import (
	"context"
	"testing"
)

// mockStore implements StoreClient for tests. Each operation records its
// calls and delegates to an optional fn field.
type mockStore struct {
	indexFn     func(ctx context.Context, path, id string, doc Values) (string, error)
	provisionFn func(ctx context.Context, path string, definition Values) error
	fetchFn     func(ctx context.Context, path, id string, volatile bool) (Values, error)
	updateFn    func(ctx context.Context, path, id string, doc Values) error
	searchFn    func(ctx context.Context, path string, req SearchRequest) (*StoreSearchResult, error)
	removeFn    func(ctx context.Context, path, id string) error

	indexCalls     []indexCall
	provisionCalls []string
	updateCalls    []indexCall
	removeCalls    []string
}

type indexCall struct {
	path string
	id   string
	doc  Values
}

func (m *mockStore) Index(ctx context.Context, path, id string, doc Values) (string, error) {
	m.indexCalls = append(m.indexCalls, indexCall{path: path, id: id, doc: doc})
	if m.indexFn != nil {
		return m.indexFn(ctx, path, id, doc)
	}
	if id == "" {
		id = "generated-id"
	}
	return id, nil
}

func (m *mockStore) ProvisionSchema(ctx context.Context, path string, definition Values) error {
	m.provisionCalls = append(m.provisionCalls, path)
	if m.provisionFn != nil {
		return m.provisionFn(ctx, path, definition)
	}
	return nil
}

func (m *mockStore) Fetch(ctx context.Context, path, id string, volatile bool) (Values, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, path, id, volatile)
	}
	return nil, ErrNotFound
}

func (m *mockStore) Update(ctx context.Context, path, id string, doc Values) error {
	m.updateCalls = append(m.updateCalls, indexCall{path: path, id: id, doc: doc})
	if m.updateFn != nil {
		return m.updateFn(ctx, path, id, doc)
	}
	return nil
}

func (m *mockStore) Search(ctx context.Context, path string, req SearchRequest) (*StoreSearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, path, req)
	}
	return &StoreSearchResult{}, nil
}

func (m *mockStore) Remove(ctx context.Context, path, id string) error {
	m.removeCalls = append(m.removeCalls, path+"/"+id)
	if m.removeFn != nil {
		return m.removeFn(ctx, path, id)
	}
	return nil
}

// productSchema is the shared catalog fixture.
func productSchema() Schema {
	return Schema{
		"name":   {Type: FieldString, Index: IndexTerms, Required: true},
		"price":  {Type: FieldJSON, Index: IndexNone},
		"active": {Type: FieldBoolean, Default: true},
	}
}

func productDefinition() Definition {
	return Definition{
		IndexTemplate: "products/{store_id}",
		Schema:        productSchema(),
	}
}

// profileSchema exercises guarded and defaulted fields.
func profileSchema() Schema {
	return Schema{
		"email":  {Type: FieldString, Index: IndexTerms, Required: true},
		"secret": {Type: FieldString, WriteOnly: WriteOnly()},
		"ssn":    {Type: FieldString, WriteOnly: ReadableBy("admin")},
		"tags":   {Type: FieldTermArray, DefaultFunc: func() any { return []string{} }},
	}
}

func profileDefinition() Definition {
	return Definition{
		IndexTemplate: "profiles",
		Schema:        profileSchema(),
	}
}

func newTestManager(t *testing.T, store StoreClient, def Definition) *Manager {
	t.Helper()
	m, err := newManager(store, def, nil, nil)
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	return m
}
