package redisearch

import (
	"fmt"

	"github.com/kailas-cloud/docmap/internal/db"
)

// buildIndexDefinition converts a schema definition payload into an FT
// index over JSON documents. Each schema field becomes a JSONPath field
// aliased to its plain name; unindexed and opaque fields stay out of the
// FT schema and live only in the stored document.
func buildIndexDefinition(name, keyPrefix string, definition map[string]any) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).OnJSON().Prefix(keyPrefix)

	// The embedded document id is always addressable.
	b.Tag("$.id").As("id").Sortable()

	for field, raw := range definition {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema field %q: malformed definition entry", field)
		}
		if idx, _ := entry["_index"].(string); idx == "none" {
			continue
		}

		path := "$." + field
		typ, _ := entry["_type"].(string)
		switch typ {
		case "text":
			b.Text(path).As(field).Sortable()
		case "string", "term", "uuid", "boolean", "date", "array/term":
			b.Tag(path).As(field).Sortable()
		case "json":
			// Opaque structured values are stored, never indexed.
			continue
		default:
			return nil, fmt.Errorf("schema field %q: unsupported type %q", field, typ)
		}
	}

	return b.Build()
}
