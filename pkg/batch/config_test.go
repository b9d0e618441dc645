package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("Concurrency = %d, want default 4", cfg.Concurrency)
	}
	if cfg.SkipHashVerification {
		t.Fatal("SkipHashVerification should default to false")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `{"concurrency": 16, "skip_hash_verification": true}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Concurrency != 16 {
		t.Fatalf("Concurrency = %d, want 16", cfg.Concurrency)
	}
	if !cfg.SkipHashVerification {
		t.Fatal("expected SkipHashVerification = true")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
