package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir mirrors t.Chdir (added in Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		store   StoreConfig
		wantErr bool
	}{
		{"redis with addrs", StoreConfig{Driver: "redis", Addrs: []string{"localhost:6379"}}, false},
		{"valkey with addrs", StoreConfig{Driver: "valkey", Addrs: []string{"localhost:6379"}}, false},
		{"redis without addrs", StoreConfig{Driver: "redis"}, true},
		{"xapiand with base url", StoreConfig{Driver: "xapiand", BaseURL: "http://localhost:8880"}, false},
		{"xapiand without base url", StoreConfig{Driver: "xapiand"}, true},
		{"unknown driver", StoreConfig{Driver: "mongodb", Addrs: []string{"x"}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Store: tc.store}
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Store.Driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.Store.Driver)
	}
	if cfg.Store.ReadinessTimeout != 10 {
		t.Errorf("readiness timeout = %d, want 10", cfg.Store.ReadinessTimeout)
	}
	if cfg.Store.KeyPrefix != "docmap" {
		t.Errorf("key prefix = %q, want docmap", cfg.Store.KeyPrefix)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  driver: redis
  addrs: ["${DOCMAP_TEST_ADDR:-localhost:6379}"]
  password: "${DOCMAP_TEST_PASSWORD}"
logging:
  level: debug
`
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOCMAP_TEST_PASSWORD", "s3cret")
	chdir(t, dir)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, default substitution failed", cfg.Store.Addrs[0])
	}
	if cfg.Store.Password != "s3cret" {
		t.Errorf("password = %q, env substitution failed", cfg.Store.Password)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("nope"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
