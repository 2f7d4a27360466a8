package docmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/docmap/internal/store"
)

// Sentinel errors. Use errors.Is() to check.
var (
	// ErrNotFound signals a fetch/update/delete target that does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrSchemaPrecondition signals a store schema-precondition failure.
	// The Manager recovers from it internally with exactly one
	// provisioning retry; callers only see it through a custom StoreClient.
	ErrSchemaPrecondition = store.ErrSchemaPrecondition
	// ErrValidation signals a schema violation on construction or access.
	ErrValidation = errors.New("docmap: validation failed")
	// ErrPermission signals access to a guarded field without the
	// required permissions.
	ErrPermission = errors.New("docmap: permission denied")
	// ErrMissingTemplateValue signals an index-template placeholder with
	// no value to resolve it.
	ErrMissingTemplateValue = errors.New("docmap: unresolved template placeholder")
	// ErrStore signals a store failure the Manager will not retry.
	ErrStore = errors.New("docmap: store failure")
)

// ValidationError reports a schema violation for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingTemplateValueError names every placeholder left unresolved.
type MissingTemplateValueError struct {
	Template string
	Missing  []string
}

func (e *MissingTemplateValueError) Error() string {
	missing := append([]string(nil), e.Missing...)
	sort.Strings(missing)
	return fmt.Sprintf("%s: template %q needs {%s}",
		ErrMissingTemplateValue.Error(), e.Template, strings.Join(missing, "}, {"))
}

func (e *MissingTemplateValueError) Unwrap() error { return ErrMissingTemplateValue }

// StoreError wraps a store failure that persisted after (or never qualified
// for) the schema-provisioning retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return ErrStore.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// storeFailure classifies a store-reported error: not-found stays
// distinguishable, everything else becomes a StoreError.
func storeFailure(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
