package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	settings, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load of missing file should not error, got %v", err)
	}
	if settings.Server.Name != "vprinter" {
		t.Errorf("expected default server name, got %q", settings.Server.Name)
	}
	if settings.Infra.PollSeconds != 60 {
		t.Errorf("expected default poll interval 60, got %d", settings.Infra.PollSeconds)
	}
	if settings.Limits.MaxImageWidth != 16384 {
		t.Errorf("expected default max image width, got %d", settings.Limits.MaxImageWidth)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	content := `
[server]
name = "print-lab"
log_level = "DEBUG"

[infra]
poll_seconds = 15

[[printer]]
name = "lobby"
driver = "pwg-test"

[[printer]]
name = "pool"
driver = "infra"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if settings.Server.Name != "print-lab" {
		t.Errorf("server name = %q, want print-lab", settings.Server.Name)
	}
	if settings.Server.LogLevel != "DEBUG" {
		t.Errorf("log level = %q, want DEBUG", settings.Server.LogLevel)
	}
	if settings.Infra.PollSeconds != 15 {
		t.Errorf("poll seconds = %d, want 15", settings.Infra.PollSeconds)
	}
	if len(settings.Printers) != 2 {
		t.Fatalf("expected 2 printers, got %d", len(settings.Printers))
	}
	if settings.Printers[1].Driver != "infra" {
		t.Errorf("second printer driver = %q, want infra", settings.Printers[1].Driver)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}
