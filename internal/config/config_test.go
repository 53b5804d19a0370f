package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port: got %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.MaxUploadMB != 32 {
		t.Errorf("MaxUploadMB: got %d, want 32", cfg.MaxUploadMB)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_UPLOAD_MB", "8")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Port: got %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.MaxUploadMB != 8 {
		t.Errorf("MaxUploadMB: got %d, want 8", cfg.MaxUploadMB)
	}
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if cfg := Load(); cfg.Port != 8080 {
		t.Errorf("Port: got %d, want default 8080", cfg.Port)
	}
}
