// Package redisearch backs the document store contract with a Redis or
// Valkey instance running the search module. Documents live as JSON keys
// and every index path maps to one FT index over its key prefix.
package redisearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docmap/internal/db"
	"github.com/kailas-cloud/docmap/internal/store"
)

// Backend is the slice of db.Store this store consumes.
type Backend interface {
	db.JSONStore
	db.IndexManager
	db.Searcher
}

// Config tunes the store.
type Config struct {
	// KeyPrefix namespaces every key and index name. Defaults to "docmap".
	KeyPrefix string
}

// Store implements store.Client on top of an FT-capable Redis.
type Store struct {
	db     Backend
	prefix string
}

var _ store.Client = (*Store)(nil)

// New wraps a database backend into a document store.
func New(backend Backend, cfg Config) *Store {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "docmap"
	}
	return &Store{db: backend, prefix: prefix}
}

// indexName converts an index path into an FT index identifier.
func (s *Store) indexName(path string) string {
	return s.prefix + ":" + strings.ReplaceAll(strings.Trim(path, "/"), "/", ":")
}

// docKey returns the JSON key for a document id under an index path.
func (s *Store) docKey(path, id string) string {
	return s.indexName(path) + ":doc:" + id
}

// keyPrefix returns the key prefix the FT index watches.
func (s *Store) keyPrefix(path string) string {
	return s.indexName(path) + ":doc:"
}

// Index writes a new document. The FT index for path must exist first;
// a missing index is the schema precondition the caller provisions on.
func (s *Store) Index(ctx context.Context, path, id string, doc store.Values) (string, error) {
	exists, err := s.db.IndexExists(ctx, s.indexName(path))
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("index %q: %w", s.indexName(path), store.ErrSchemaPrecondition)
	}

	if id == "" {
		id = uuid.NewString()
	}
	if err := s.writeDoc(ctx, path, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// ProvisionSchema creates the FT index for path from a schema definition.
// Racing with another provisioner is fine: an existing index is success.
func (s *Store) ProvisionSchema(ctx context.Context, path string, definition store.Values) error {
	def, err := buildIndexDefinition(s.indexName(path), s.keyPrefix(path), definition)
	if err != nil {
		return err
	}
	if err := s.db.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return err
	}
	return nil
}

// Fetch reads a document by id. Key reads hit the primary, so the
// volatile flag asks for nothing extra here.
func (s *Store) Fetch(ctx context.Context, path, id string, _ bool) (store.Values, error) {
	raw, err := s.db.JSONGet(ctx, s.docKey(path, id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	// JSON.GET with path "$" returns a one-element array.
	var docs []store.Values
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode document %q: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return docs[0], nil
}

// Update rewrites an existing document in place.
func (s *Store) Update(ctx context.Context, path, id string, doc store.Values) error {
	exists, err := s.db.Exists(ctx, s.docKey(path, id))
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}

	idxExists, err := s.db.IndexExists(ctx, s.indexName(path))
	if err != nil {
		return err
	}
	if !idxExists {
		return fmt.Errorf("index %q: %w", s.indexName(path), store.ErrSchemaPrecondition)
	}

	return s.writeDoc(ctx, path, id, doc)
}

// Search runs an FT query over the path's index. An empty query matches
// everything.
func (s *Store) Search(ctx context.Context, path string, req store.SearchRequest) (*store.SearchResult, error) {
	query := req.Query
	if query == "" {
		query = "*"
	}

	res, err := s.db.SearchList(ctx, s.indexName(path), query, req.Offset, req.Limit, req.Sort, nil)
	if err != nil {
		return nil, err
	}

	items := make([]store.Values, 0, len(res.Entries))
	for _, entry := range res.Entries {
		raw, ok := entry.Fields["$"]
		if !ok {
			continue
		}
		var doc store.Values
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode hit %q: %w", entry.Key, err)
		}
		items = append(items, doc)
	}

	// FT.SEARCH counts matches exactly, so the estimate equals the total.
	return &store.SearchResult{
		Items:            items,
		Total:            res.Total,
		MatchesEstimated: res.Total,
	}, nil
}

// Remove deletes a document by id.
func (s *Store) Remove(ctx context.Context, path, id string) error {
	key := s.docKey(path, id)
	exists, err := s.db.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return s.db.Del(ctx, key)
}

// writeDoc serializes the document, embedding its id so search hits
// hydrate without an extra lookup.
func (s *Store) writeDoc(ctx context.Context, path, id string, doc store.Values) error {
	payload := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		payload[k] = v
	}
	payload["id"] = id

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", id, err)
	}
	return s.db.JSONSet(ctx, s.docKey(path, id), "$", data)
}
