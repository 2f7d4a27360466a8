package docmap

import (
	"errors"
	"testing"
)

func TestSchemaValidate_Success(t *testing.T) {
	if err := productSchema().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := profileSchema().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchemaValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{"empty field name", Schema{"": {Type: FieldString}}},
		{"unknown type", Schema{"f": {Type: FieldType("float")}}},
		{"unknown index strategy", Schema{"f": {Type: FieldString, Index: IndexStrategy("fuzzy")}}},
		{"conflicting defaults", Schema{"f": {
			Type:        FieldString,
			Default:     "a",
			DefaultFunc: func() any { return "b" },
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSchemaDefinition_WireKeys(t *testing.T) {
	s := Schema{
		"name": {
			Type:     FieldString,
			Index:    IndexTerms,
			Required: true,
			Label:    "Name",
			HelpText: "Display name",
		},
		"note": {Type: FieldText, Nullable: true},
		"blob": {Type: FieldJSON, Index: IndexNone},
	}

	def := s.Definition()

	name, ok := def["name"].(map[string]any)
	if !ok {
		t.Fatalf("name entry = %T", def["name"])
	}
	if name["_type"] != "string" || name["_index"] != "terms" {
		t.Fatalf("name entry = %v", name)
	}
	if name["_required"] != true || name["_label"] != "Name" || name["_help_text"] != "Display name" {
		t.Fatalf("name entry = %v", name)
	}

	note := def["note"].(map[string]any)
	if note["_null"] != true {
		t.Fatalf("note entry = %v", note)
	}
	if _, ok := note["_index"]; ok {
		t.Fatal("default index strategy must not emit _index")
	}
	if _, ok := note["_required"]; ok {
		t.Fatal("optional field must not emit _required")
	}

	blob := def["blob"].(map[string]any)
	if blob["_type"] != "json" || blob["_index"] != "none" {
		t.Fatalf("blob entry = %v", blob)
	}
}

func TestFieldDefaultValue(t *testing.T) {
	if v, ok := (Field{Default: 5}).defaultValue(); !ok || v != 5 {
		t.Fatalf("static default = %v %v", v, ok)
	}

	f := Field{DefaultFunc: func() any { return []string{} }}
	a, _ := f.defaultValue()
	b, _ := f.defaultValue()
	sa := a.([]string)
	sb := b.([]string)
	sa = append(sa, "x")
	if len(sb) != 0 {
		t.Fatal("DefaultFunc values must be independent per call")
	}
	_ = sa

	if _, ok := (Field{}).defaultValue(); ok {
		t.Fatal("field without default must report none")
	}
}
