package main

import "testing"

// TestGetVersion tests version resolution.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if v := getVersion(); v == "" {
		t.Error("getVersion() returned empty string")
	}
}

// TestVersionOverride tests that ldflags-injected values win.
func TestVersionOverride(t *testing.T) {
	// Not parallel: mutates package-level variables.
	orig := version
	t.Cleanup(func() { version = orig })

	version = "1.2.3"
	if got := getVersion(); got != "1.2.3" {
		t.Errorf("getVersion() = %q, want 1.2.3", got)
	}
}

// TestNewVersionCmd tests version command construction.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want version", cmd.Use)
	}
	if cmd.RunE == nil && cmd.Run == nil {
		t.Error("version command has no run function")
	}
}
