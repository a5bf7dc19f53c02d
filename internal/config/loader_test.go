package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadConfigFile tests YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads drug profiles", func(t *testing.T) {
		t.Parallel()
		path := writeConfigFile(t, `
defaults:
  defaultDoseMg: 5.0
drugs:
  doxorubicin:
    defaultDoseMg: 2.5
    preferredRoute: iv
    maxDoseMg: 10.0
    notes: cardiotoxicity above cumulative threshold
`)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile: %v", err)
		}

		if cf.Defaults.DefaultDoseMg != 5.0 {
			t.Errorf("Defaults.DefaultDoseMg = %g, want 5", cf.Defaults.DefaultDoseMg)
		}
		profile, ok := cf.Drugs["doxorubicin"]
		if !ok {
			t.Fatal("doxorubicin profile missing")
		}
		if profile.DefaultDoseMg != 2.5 || profile.PreferredRoute != "iv" || profile.MaxDoseMg != 10.0 {
			t.Errorf("unexpected profile: %+v", profile)
		}
		if profile.Notes == "" {
			t.Error("notes not loaded")
		}
	})

	t.Run("empty file yields an initialized drugs map", func(t *testing.T) {
		t.Parallel()
		cf, err := LoadConfigFile(writeConfigFile(t, ""))
		if err != nil {
			t.Fatalf("LoadConfigFile: %v", err)
		}
		if cf.Drugs == nil {
			t.Error("Drugs map not initialized")
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfigFile(writeConfigFile(t, "drugs: [not a map")); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}

// TestFindConfigFile tests the configuration file search order.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: subtests change the working directory.

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		path := writeConfigFile(t, "")
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile(%q) = %q, want the same path", path, got)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent.yaml")
		if got := FindConfigFile(missing); got != "" {
			t.Errorf("FindConfigFile(%q) = %q, want empty", missing, got)
		}
	})

	t.Run("falls back to the current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Chdir(dir)

		got := FindConfigFile("")
		// Some platforms resolve the temp directory through symlinks.
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("FindConfigFile(\"\") = %q, want a %s path", got, DefaultConfigFile)
		}
	})
}
