package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigClient(t *testing.T) {
	path := writeTempConfig(t, `{"remote":"2.2.2.2:8080","name":"alice","ratelimit":1048576,"quiet":true}`)

	var cfg ClientConfig
	if err := ParseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("ParseJSONConfig returned error: %v", err)
	}

	if cfg.Remote != "2.2.2.2:8080" || cfg.Name != "alice" {
		t.Fatalf("unexpected addresses: %+v", cfg)
	}
	if cfg.RateLimit != 1048576 || !cfg.Quiet {
		t.Fatalf("unexpected field values: %+v", cfg)
	}
}

func TestParseJSONConfigServer(t *testing.T) {
	path := writeTempConfig(t, `{"listen":":8080","outdir":"/var/tmp/icedrop"}`)

	var cfg ServerConfig
	if err := ParseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("ParseJSONConfig returned error: %v", err)
	}

	if cfg.Listen != ":8080" || cfg.OutDir != "/var/tmp/icedrop" {
		t.Fatalf("unexpected field values: %+v", cfg)
	}
}

func TestParseJSONConfigMissingFile(t *testing.T) {
	var cfg ClientConfig
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := ParseJSONConfig(&cfg, missing); err == nil {
		t.Fatalf("ParseJSONConfig expected error for missing file")
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
