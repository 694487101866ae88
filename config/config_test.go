package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.DownloadDir != "./downloads" {
		t.Errorf("download dir default = %q", cfg.DownloadDir)
	}
	if cfg.StoreKind != "memory" {
		t.Errorf("store default = %q, want memory", cfg.StoreKind)
	}
	if cfg.SubtitleLang != "en" {
		t.Errorf("subtitle lang default = %q, want en", cfg.SubtitleLang)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("STORE", "  PgVector ")
	t.Setenv("DOWNLOAD_DIR", "/data/media")

	cfg := defaultConfig()
	applyEnv(cfg)

	if cfg.APIKey != "test-key" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.StoreKind != "pgvector" {
		t.Errorf("store = %q, want normalized pgvector", cfg.StoreKind)
	}
	if cfg.DownloadDir != "/data/media" {
		t.Errorf("download dir = %q", cfg.DownloadDir)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	cfg.DownloadDir = " "
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for blank download dir")
	}
}

func TestHasValidAPI(t *testing.T) {
	cfg := defaultConfig()
	if cfg.HasValidAPI() {
		t.Error("no key should mean no valid API")
	}
	cfg.APIKey = "k"
	if !cfg.HasValidAPI() {
		t.Error("key present should mean valid API")
	}
}
