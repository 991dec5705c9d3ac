package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oberon-fe/oberonc/internal/config"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NormalizePointers {
		t.Fatalf("expected normalize_pointers default false")
	}
	if len(s.SearchPath) != len(config.DefaultSearchPath) {
		t.Fatalf("expected default search path, got %v", s.SearchPath)
	}
}

func TestLoadSettingsOverridesSearchPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oberonc.yaml")
	body := "search_path:\n  - /opt/oberon\nnormalize_pointers: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing settings file: %v", err)
	}

	s, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.SearchPath) != 1 || s.SearchPath[0] != "/opt/oberon" {
		t.Fatalf("expected overridden search path, got %v", s.SearchPath)
	}
	if !s.NormalizePointers {
		t.Fatalf("expected normalize_pointers true")
	}
}

func TestHasSourceExt(t *testing.T) {
	for _, ext := range config.SourceFileExtensions {
		if !config.HasSourceExt("Foo" + ext) {
			t.Fatalf("expected %q to be recognized as a source extension", ext)
		}
	}
	if config.HasSourceExt("Foo.txt") {
		t.Fatalf("expected .txt not to be recognized")
	}
}

func TestTrimSourceExt(t *testing.T) {
	if got := config.TrimSourceExt("Foo.Mod"); got != "Foo" {
		t.Fatalf("expected Foo, got %q", got)
	}
	if got := config.TrimSourceExt("Foo"); got != "Foo" {
		t.Fatalf("expected unchanged name without extension, got %q", got)
	}
}
