package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("price").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "price" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want price NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_JSONWithAliases(t *testing.T) {
	idx := NewIndex("json-idx").
		OnJSON().
		Prefix("json:doc:").
		Text("$.title").As("title").Sortable().
		Tag("$.kind").As("kind").
		MustBuild()

	if idx.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", idx.StorageType)
	}
	f := idx.Fields[0]
	if f.Name != "$.title" || f.Alias != "title" || !f.Sortable {
		t.Errorf("field[0] = %+v, want $.title AS title SORTABLE", f)
	}
	if idx.Fields[1].Alias != "kind" {
		t.Errorf("field[1] alias = %q, want kind", idx.Fields[1].Alias)
	}
}

func TestIndexBuilder_TagWithOpts(t *testing.T) {
	idx := NewIndex("tags").
		TagWithOpts("labels", "|", true).
		MustBuild()

	f := idx.Fields[0]
	if f.TagSeparator != "|" || !f.TagCaseSensitive {
		t.Errorf("field = %+v, want separator | case sensitive", f)
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *IndexBuilder
		wantErr string
	}{
		{
			name:    "empty name",
			build:   func() *IndexBuilder { return NewIndex("").Tag("f") },
			wantErr: "index name is required",
		},
		{
			name:    "bad identifier",
			build:   func() *IndexBuilder { return NewIndex("bad name!").Tag("f") },
			wantErr: "invalid characters",
		},
		{
			name:    "no fields",
			build:   func() *IndexBuilder { return NewIndex("idx") },
			wantErr: "at least one field",
		},
		{
			name:    "duplicate field",
			build:   func() *IndexBuilder { return NewIndex("idx").Tag("f").Text("f") },
			wantErr: "duplicate field",
		},
		{
			name:    "noindex without sortable",
			build:   func() *IndexBuilder { return NewIndex("idx").Tag("f").NoIndex() },
			wantErr: "NOINDEX",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build().Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("idx").
		OnJSON().
		Prefix("idx:doc:").
		Tag("$.id").As("id").Sortable().
		MustBuild()

	s := idx.String()
	for _, part := range []string{"FT.CREATE", "idx", "ON", "JSON", "PREFIX", "SCHEMA", "$.id", "AS", "id", "TAG", "SORTABLE"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"idx", "my-index", "a:b:c", "under_score", "Idx42"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "has space", "dot.name", "slash/name", "uni©ode"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true, want false", s)
		}
	}
}
