package docmap

import (
	"context"
	"fmt"
)

// Model is the live runtime record for one document. Field access goes
// through Get/Set, which gate every name against the model's schema and
// its write-only guards. Save and Delete flow back through the owning
// Manager.
//
// A Model is not safe for concurrent mutation; each caller operates on its
// own instance.
type Model struct {
	mgr     *Manager
	id      string
	fields  Values
	params  Values // index-template params captured at creation/hydration
	dirty   bool
	deleted bool
}

// newModel validates fields against the manager's schema and applies
// declared defaults. Used on the create path.
func newModel(mgr *Manager, fields Values) (*Model, error) {
	schema := mgr.def.Schema
	out := make(Values, len(schema))
	for name, value := range fields {
		f, ok := schema[name]
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "not declared in schema"}
		}
		if value == nil && !f.Nullable {
			return nil, &ValidationError{Field: name, Reason: "null not allowed"}
		}
		out[name] = value
	}
	for name, f := range schema {
		if _, ok := out[name]; ok {
			continue
		}
		if v, ok := f.defaultValue(); ok {
			out[name] = v
			continue
		}
		if f.Required {
			return nil, &ValidationError{Field: name, Reason: "required field missing"}
		}
	}
	return &Model{mgr: mgr, fields: out}, nil
}

// hydrateModel builds a clean instance from a fetched document without
// validation (storage hydration). A reserved "id" entry in doc moves to
// the instance identifier.
func hydrateModel(mgr *Manager, id string, doc Values, params Values) *Model {
	fields := make(Values, len(doc))
	for k, v := range doc {
		if k == "id" {
			if id == "" {
				id = fmt.Sprint(v)
			}
			continue
		}
		fields[k] = v
	}
	return &Model{mgr: mgr, id: id, fields: fields, params: params.clone()}
}

// ID returns the document identifier, empty until first persisted.
func (m *Model) ID() string { return m.id }

// Dirty reports whether the instance has unsaved field writes.
func (m *Model) Dirty() bool { return m.dirty }

// Deleted reports whether the backing document was deleted through this
// instance.
func (m *Model) Deleted() bool { return m.deleted }

// Get returns the current value of a declared field, materializing its
// declared default if the field was never set. Reading an undeclared name
// fails with a ValidationError; reading a write-only field requires the
// matching permissions on ctx.
func (m *Model) Get(ctx context.Context, name string) (any, error) {
	f, ok := m.mgr.def.Schema[name]
	if !ok {
		return nil, &ValidationError{Field: name, Reason: "not declared in schema"}
	}
	if !f.WriteOnly.allows(GuardGet, PermissionsFromContext(ctx)) {
		return nil, fmt.Errorf("read field %q: %w", name, ErrPermission)
	}
	if v, ok := m.fields[name]; ok {
		return v, nil
	}
	if v, ok := f.defaultValue(); ok {
		m.fields[name] = v
		return v, nil
	}
	return nil, nil
}

// Set stores a value into a declared field and marks the instance dirty.
// Writing an undeclared name fails with a ValidationError; a guarded write
// requires the matching permissions on ctx.
func (m *Model) Set(ctx context.Context, name string, value any) error {
	f, ok := m.mgr.def.Schema[name]
	if !ok {
		return &ValidationError{Field: name, Reason: "not declared in schema"}
	}
	if !f.WriteOnly.allows(GuardSet, PermissionsFromContext(ctx)) {
		return fmt.Errorf("write field %q: %w", name, ErrPermission)
	}
	if value == nil && !f.Nullable {
		return &ValidationError{Field: name, Reason: "null not allowed"}
	}
	m.fields[name] = value
	m.dirty = true
	return nil
}

// Save persists the current field values: an unpersisted instance is
// indexed as a new document (adopting the returned identifier), a
// persisted one is rewritten in place. Clears the dirty flag on success.
func (m *Model) Save(ctx context.Context) error {
	if m.deleted {
		return fmt.Errorf("docmap: save on deleted instance: %w", ErrNotFound)
	}
	if m.id == "" {
		return m.mgr.insert(ctx, m)
	}
	return m.mgr.update(ctx, m)
}

// Delete removes the backing document. The instance no longer represents
// a live document afterwards: further Save or Delete calls fail.
func (m *Model) Delete(ctx context.Context) error {
	if m.deleted {
		return fmt.Errorf("docmap: delete on deleted instance: %w", ErrNotFound)
	}
	if m.id == "" {
		return fmt.Errorf("docmap: delete on unpersisted instance: %w", ErrNotFound)
	}
	if err := m.mgr.remove(ctx, m); err != nil {
		return err
	}
	m.deleted = true
	return nil
}

// document snapshots the current field values for a store write.
func (m *Model) document() Values {
	return m.fields.clone()
}

// templateValues merges field values with the captured template params;
// params win, mirroring how the instance was addressed at creation.
func (m *Model) templateValues() Values {
	merged := m.fields.clone()
	for k, v := range m.params {
		merged[k] = v
	}
	return merged
}

func (m *Model) String() string {
	return fmt.Sprintf("Model(id=%s, fields=%v)", m.id, m.fields)
}
