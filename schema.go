package docmap

// FieldType enumerates the value types a schema field may declare.
// The string values are the wire vocabulary understood by the store.
type FieldType string

const (
	// FieldIdentifier is a UUID-style identifier.
	FieldIdentifier FieldType = "uuid"
	// FieldString is an atomic string value.
	FieldString FieldType = "string"
	// FieldTerm is an exact-match token.
	FieldTerm FieldType = "term"
	// FieldText is free text subject to full-text analysis.
	FieldText FieldType = "text"
	// FieldBoolean is a boolean flag.
	FieldBoolean FieldType = "boolean"
	// FieldDate is a point in time.
	FieldDate FieldType = "date"
	// FieldJSON is an opaque structured value.
	FieldJSON FieldType = "json"
	// FieldTermArray is a list of exact-match tokens.
	FieldTermArray FieldType = "array/term"
)

// IndexStrategy selects how the store indexes a field.
type IndexStrategy string

const (
	// IndexDefault defers to the store's default strategy.
	IndexDefault IndexStrategy = ""
	// IndexTerms indexes individual terms.
	IndexTerms IndexStrategy = "terms"
	// IndexFieldTerms indexes terms scoped to the field.
	IndexFieldTerms IndexStrategy = "field_terms"
	// IndexFieldAll indexes both scoped and global terms.
	IndexFieldAll IndexStrategy = "field_all"
	// IndexNone stores the value without indexing it.
	IndexNone IndexStrategy = "none"
)

// Field describes one schema entry.
type Field struct {
	Type     FieldType
	Index    IndexStrategy
	Required bool
	Nullable bool

	// Default is the value applied when the field is not supplied.
	// DefaultFunc is its nullary-producer form, evaluated once per
	// construction so instances never share a mutable default.
	// At most one of the two may be set.
	Default     any
	DefaultFunc func() any

	// WriteOnly guards access to the field; nil leaves it open.
	WriteOnly Guard

	// Display metadata, passed through to the provisioned schema.
	Label    string
	HelpText string
}

// defaultValue materializes the field's default, if it declares one.
func (f Field) defaultValue() (any, bool) {
	if f.DefaultFunc != nil {
		return f.DefaultFunc(), true
	}
	if f.Default != nil {
		return f.Default, true
	}
	return nil, false
}

func (t FieldType) valid() bool {
	switch t {
	case FieldIdentifier, FieldString, FieldTerm, FieldText,
		FieldBoolean, FieldDate, FieldJSON, FieldTermArray:
		return true
	}
	return false
}

func (s IndexStrategy) valid() bool {
	switch s {
	case IndexDefault, IndexTerms, IndexFieldTerms, IndexFieldAll, IndexNone:
		return true
	}
	return false
}

// Schema maps field names to their descriptors. Every field accessed on a
// model instance must have an entry here; unknown names fail fast.
type Schema map[string]Field

// Validate checks that the schema is internally consistent.
func (s Schema) Validate() error {
	for name, f := range s {
		if name == "" {
			return &ValidationError{Field: name, Reason: "empty field name"}
		}
		if !f.Type.valid() {
			return &ValidationError{Field: name, Reason: "unknown field type " + string(f.Type)}
		}
		if !f.Index.valid() {
			return &ValidationError{Field: name, Reason: "unknown index strategy " + string(f.Index)}
		}
		if f.Default != nil && f.DefaultFunc != nil {
			return &ValidationError{Field: name, Reason: "both Default and DefaultFunc set"}
		}
	}
	return nil
}

// Definition renders the schema as the store-side provisioning payload.
// The underscore-prefixed keys are the wire format this layer owns.
func (s Schema) Definition() Values {
	def := make(Values, len(s))
	for name, f := range s {
		entry := map[string]any{"_type": string(f.Type)}
		if f.Index != IndexDefault {
			entry["_index"] = string(f.Index)
		}
		if f.Required {
			entry["_required"] = true
		}
		if f.Nullable {
			entry["_null"] = true
		}
		if f.Label != "" {
			entry["_label"] = f.Label
		}
		if f.HelpText != "" {
			entry["_help_text"] = f.HelpText
		}
		def[name] = entry
	}
	return def
}
