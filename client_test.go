package docmap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "WithStore") {
		t.Fatalf("error should name the options: %v", err)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "mongodb"}
	if _, _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_WithCustomStore(t *testing.T) {
	store := &mockStore{}
	c, err := New(context.Background(), WithStore(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	mgr, err := c.Bind(productDefinition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := mgr.Create(context.Background(), Values{"name": "mouse", "store_id": "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.indexCalls) != 1 {
		t.Fatalf("index calls = %d", len(store.indexCalls))
	}
}

func TestBind_RejectsBadDefinition(t *testing.T) {
	c, err := New(context.Background(), WithStore(&mockStore{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if _, err := c.Bind(Definition{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestObserver_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(context.Background(), WithStore(&mockStore{}), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	mgr, err := c.Bind(productDefinition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := mgr.Create(context.Background(), Values{"name": "mouse", "store_id": "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mgr.Create(context.Background(), Values{}); err == nil {
		t.Fatal("expected validation error")
	}

	ok := testutil.ToFloat64(mgr.obs.metrics.operations.WithLabelValues("create", "ok"))
	if ok != 1 {
		t.Fatalf("create ok count = %v", ok)
	}
	failed := testutil.ToFloat64(mgr.obs.metrics.operations.WithLabelValues("create", "error"))
	if failed != 1 {
		t.Fatalf("create error count = %v", failed)
	}
}

func TestRegisterOrReuse_SecondRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newMapperMetrics(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := newMapperMetrics(reg)
	if err != nil {
		t.Fatalf("expected reuse, got %v", err)
	}
	if first.operations != second.operations {
		t.Fatal("collectors must be shared across registrations")
	}
}

func TestNilObserver_IsSafe(t *testing.T) {
	mgr := newTestManager(t, &mockStore{}, productDefinition())
	if mgr.obs != nil {
		t.Fatal("test manager should have nil observer")
	}
	if _, err := mgr.Create(context.Background(), Values{"name": "mouse", "store_id": "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
