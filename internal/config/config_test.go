package config

import (
	"errors"
	"strings"
	"testing"
)

// TestNewConfig tests the constructor defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.DBDir == "" {
		t.Error("expected a non-empty default database directory")
	}
	if !strings.HasSuffix(cfg.DBDir, AppName) {
		t.Errorf("DBDir = %q, want a path ending in %q", cfg.DBDir, AppName)
	}
	if cfg.Verbose || cfg.JSONReport || cfg.MarkdownReport {
		t.Error("expected output flags off by default")
	}
	if cfg.DoseMg != 0 {
		t.Errorf("DoseMg = %g, want 0 (fall back to profile or default)", cfg.DoseMg)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "json alone is valid",
			mutate:  func(c *Config) { c.JSONReport = true },
			wantErr: nil,
		},
		{
			name:    "markdown alone is valid",
			mutate:  func(c *Config) { c.MarkdownReport = true },
			wantErr: nil,
		},
		{
			name: "json and markdown conflict",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "empty database directory",
			mutate:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrEmptyDBDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
