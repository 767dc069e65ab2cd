package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}
	if cfg.Serve.Transport != "stdio" {
		t.Errorf("expected default transport stdio, got %q", cfg.Serve.Transport)
	}
	if cfg.Schemas.Listing != "" {
		t.Errorf("schema ids must start empty, got %q", cfg.Schemas.Listing)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := `
log:
  level: debug
vault:
  nodes:
    - url: http://node-a:8080
      id: node-a
    - url: http://node-b:8080
      id: node-b
    - url: http://node-c:8080
      id: node-c
  credentials:
    secret_key: s3cret
    org_id: org-1
schemas:
  listing: schema-listing
`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Log.Level)
	}
	if len(cfg.Vault.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(cfg.Vault.Nodes))
	}
	if cfg.Vault.Nodes[1].ID != "node-b" {
		t.Errorf("unexpected node id: %q", cfg.Vault.Nodes[1].ID)
	}
	if cfg.Vault.Credentials.OrgID != "org-1" {
		t.Errorf("unexpected org id: %q", cfg.Vault.Credentials.OrgID)
	}
	if cfg.Schemas.Listing != "schema-listing" {
		t.Errorf("unexpected listing schema id: %q", cfg.Schemas.Listing)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VEILMARKET_LOG__LEVEL", "warn")
	t.Setenv("VEILMARKET_VAULT__CREDENTIALS__ORG_ID", "org-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env override warn, got %q", cfg.Log.Level)
	}
	if cfg.Vault.Credentials.OrgID != "org-env" {
		t.Errorf("expected env org id, got %q", cfg.Vault.Credentials.OrgID)
	}
}
