package docmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docmap/internal/logger"
)

// Definition binds a schema to the index-name template its documents
// live under. The template may carry placeholders ("products/{store_id}")
// resolved per call from field values or explicit template params.
type Definition struct {
	IndexTemplate string
	Schema        Schema
}

// Manager is the per-definition entry point: it creates, fetches and
// searches model instances, resolving the index template on every call
// and provisioning the schema on demand.
type Manager struct {
	store        StoreClient
	def          Definition
	placeholders map[string]bool
	obs          *observer
	log          *zap.Logger
}

func newManager(store StoreClient, def Definition, obs *observer, log *zap.Logger) (*Manager, error) {
	if def.IndexTemplate == "" {
		return nil, &ValidationError{Field: "IndexTemplate", Reason: "empty index template"}
	}
	if err := def.Schema.Validate(); err != nil {
		return nil, err
	}
	placeholders := make(map[string]bool)
	for _, name := range TemplatePlaceholders(def.IndexTemplate) {
		placeholders[name] = true
	}
	return &Manager{
		store:        store,
		def:          def,
		placeholders: placeholders,
		obs:          obs,
		log:          log,
	}, nil
}

// Definition returns the definition this manager was bound with.
func (m *Manager) Definition() Definition { return m.def }

// GetOptions tunes a single Get call.
type GetOptions struct {
	// Volatile requests the store's strongest read consistency, at the
	// cost of bypassing caches.
	Volatile bool
	// Params supplies index-template placeholder values.
	Params Values
}

// FilterOptions tunes a single Filter call.
type FilterOptions struct {
	Limit  int
	Offset int
	// Sort is a store-specific sort expression.
	Sort string
	// CheckAtLeast asks the store to examine at least this many documents
	// for an accurate match estimate.
	CheckAtLeast int
	// Params supplies index-template placeholder values.
	Params Values
}

// defaultFilterLimit bounds a Filter call that does not set its own limit.
const defaultFilterLimit = 10

// Create validates fields against the schema, applies defaults, writes
// the document and returns the persisted instance.
//
// Keys in fields that name a template placeholder (and are not schema
// fields) are consumed as template params and do not become part of the
// document. A reserved "id" key requests an explicit document identifier;
// otherwise the store assigns one.
func (m *Manager) Create(ctx context.Context, fields Values) (model *Model, err error) {
	start := time.Now()
	defer func() { m.obs.observe("create", start, err) }()

	fields = fields.clone()
	var explicitID string
	if v, ok := fields["id"]; ok {
		explicitID = fmt.Sprint(v)
		delete(fields, "id")
	}
	params := m.splitTemplateValues(fields)

	model, err = newModel(m, fields)
	if err != nil {
		return nil, err
	}
	model.params = params

	path, err := m.resolvePath(model.templateValues())
	if err != nil {
		return nil, err
	}
	id, err := m.indexDocument(ctx, path, explicitID, model.document())
	if err != nil {
		return nil, err
	}
	model.id = id
	model.dirty = false
	return model, nil
}

// Get fetches a document by id and hydrates it without validation.
func (m *Manager) Get(ctx context.Context, id string, opts *GetOptions) (model *Model, err error) {
	start := time.Now()
	defer func() { m.obs.observe("get", start, err) }()

	if opts == nil {
		opts = &GetOptions{}
	}
	path, err := m.resolvePath(opts.Params)
	if err != nil {
		return nil, err
	}
	doc, err := m.store.Fetch(ctx, path, id, opts.Volatile)
	if err != nil {
		return nil, storeFailure("fetch", err)
	}
	return hydrateModel(m, id, doc, opts.Params), nil
}

// Filter runs a query against the resolved index and returns one page of
// hydrated instances with the store's match accounting.
func (m *Manager) Filter(ctx context.Context, query string, opts *FilterOptions) (results *SearchResults, err error) {
	start := time.Now()
	defer func() { m.obs.observe("filter", start, err) }()

	if opts == nil {
		opts = &FilterOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultFilterLimit
	}
	path, err := m.resolvePath(opts.Params)
	if err != nil {
		return nil, err
	}
	raw, err := m.store.Search(ctx, path, SearchRequest{
		Query:        query,
		Limit:        limit,
		Offset:       opts.Offset,
		Sort:         opts.Sort,
		CheckAtLeast: opts.CheckAtLeast,
	})
	if err != nil {
		return nil, storeFailure("search", err)
	}
	items := make([]*Model, 0, len(raw.Items))
	for _, doc := range raw.Items {
		items = append(items, hydrateModel(m, "", doc, opts.Params))
	}
	return newSearchResults(items, raw), nil
}

// insert persists an unpersisted instance, adopting the returned id.
func (m *Manager) insert(ctx context.Context, model *Model) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("save", start, err) }()

	path, err := m.resolvePath(model.templateValues())
	if err != nil {
		return err
	}
	id, err := m.indexDocument(ctx, path, "", model.document())
	if err != nil {
		return err
	}
	model.id = id
	model.dirty = false
	return nil
}

// update rewrites a persisted instance in place.
func (m *Manager) update(ctx context.Context, model *Model) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("save", start, err) }()

	path, err := m.resolvePath(model.templateValues())
	if err != nil {
		return err
	}
	if err := m.updateDocument(ctx, path, model.id, model.document()); err != nil {
		return err
	}
	model.dirty = false
	return nil
}

// remove deletes the backing document of a persisted instance.
func (m *Manager) remove(ctx context.Context, model *Model) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("delete", start, err) }()

	path, err := m.resolvePath(model.templateValues())
	if err != nil {
		return err
	}
	if err := m.store.Remove(ctx, path, model.id); err != nil {
		return storeFailure("remove", err)
	}
	return nil
}

// indexDocument writes a document, provisioning the schema and retrying
// exactly once when the store reports a schema precondition failure.
func (m *Manager) indexDocument(ctx context.Context, path, id string, doc Values) (string, error) {
	newID, err := m.store.Index(ctx, path, id, doc)
	if err == nil {
		return newID, nil
	}
	if !errors.Is(err, ErrSchemaPrecondition) {
		return "", storeFailure("index", err)
	}
	if err := m.provisionSchema(ctx, path); err != nil {
		return "", err
	}
	newID, err = m.store.Index(ctx, path, id, doc)
	if err != nil {
		return "", storeFailure("index", err)
	}
	return newID, nil
}

// updateDocument rewrites a document with the same single-retry
// provisioning step as indexDocument.
func (m *Manager) updateDocument(ctx context.Context, path, id string, doc Values) error {
	err := m.store.Update(ctx, path, id, doc)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrSchemaPrecondition) {
		return storeFailure("update", err)
	}
	if err := m.provisionSchema(ctx, path); err != nil {
		return err
	}
	if err := m.store.Update(ctx, path, id, doc); err != nil {
		return storeFailure("update", err)
	}
	return nil
}

func (m *Manager) provisionSchema(ctx context.Context, path string) error {
	log := m.log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	log.Info("provisioning index schema", zap.String("index", path))
	if err := m.store.ProvisionSchema(ctx, path, m.def.Schema.Definition()); err != nil {
		return storeFailure("provision schema", err)
	}
	return nil
}

// resolvePath substitutes the index template from the given values.
func (m *Manager) resolvePath(values Values) (string, error) {
	return ResolveTemplate(m.def.IndexTemplate, values)
}

// splitTemplateValues pops placeholder-named keys out of fields, unless
// the name is also a schema field, and returns them as template params.
func (m *Manager) splitTemplateValues(fields Values) Values {
	params := Values{}
	for name := range m.placeholders {
		if _, isField := m.def.Schema[name]; isField {
			continue
		}
		if v, ok := fields[name]; ok {
			params[name] = v
			delete(fields, name)
		}
	}
	return params
}
