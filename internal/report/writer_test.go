package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nanomedlab/nanomed/internal/model"
)

// testSimpleReport builds a populated summary for writer tests.
func testSimpleReport() *model.SimpleReport {
	return &model.SimpleReport{
		NanoparticleID: "NP_AB12CD34",
		Name:           "onco-lipo-1",
		DrugPayload:    "doxorubicin",
		TargetTissue:   model.TissueTumor,
		DoseMg:         5.0,
		DateSimulated:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		TargetFraction: 0.12,
		ClearedFraction: 0.53,
		Accumulation: []model.TissueAccumulation{
			{Tissue: model.TissueTumor, Fraction: 0.12, AmountMg: 0.6},
			{Tissue: model.TissueLiver, Fraction: 0.30, AmountMg: 1.5},
			{Tissue: model.TissueKidney, Fraction: 0.05, AmountMg: 0.25},
		},
		CmaxUgMl:  0.8,
		TmaxH:     2.5,
		AUCUgHMl:  12.4,
		HalfLifeH: 8.7,
		SafetyScore: 65,
		RiskText:    "MODERATE",
		Findings: []model.Finding{
			{
				Type:           "charge_strong_positive",
				Level:          model.RiskHigh,
				LevelText:      "HIGH",
				Impact:         "Strongly cationic surfaces disrupt cell membranes.",
				Recommendation: "Shield the surface or reformulate toward neutral.",
			},
			{
				Type:      "no_targeting_ligand",
				Level:     model.RiskLow,
				LevelText: "LOW",
				Impact:    "Accumulation relies on passive distribution alone.",
			},
		},
		HighCount: 1,
		LowCount:  1,
	}
}

// TestSimpleWriter tests the human-readable text writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("output contains every section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.WriteSimple(testSimpleReport())
		if err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, buffer has %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"NANOMED SIMULATION REPORT",
			"onco-lipo-1",
			"doxorubicin",
			"BIODISTRIBUTION",
			"PHARMACOKINETICS",
			"SAFETY SUMMARY",
			"FINDINGS",
			"Charge Strong Positive",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("target tissue row is marked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}

		if !strings.Contains(buf.String(), "> Tumor") {
			t.Error("target tissue row not marked with >")
		}
	})

	t.Run("recommendations appear only in verbose mode", func(t *testing.T) {
		t.Parallel()

		rec := "Shield the surface or reformulate toward neutral."

		var quiet bytes.Buffer
		if _, err := NewSimpleWriter(&quiet).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if strings.Contains(quiet.String(), rec) {
			t.Error("recommendation shown without verbose")
		}

		var verbose bytes.Buffer
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if !strings.Contains(verbose.String(), rec) {
			t.Error("recommendation missing in verbose mode")
		}
	})

	t.Run("error status is surfaced", func(t *testing.T) {
		t.Parallel()

		report := testSimpleReport()
		report.Error = "estimation failed"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSimple(report); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - estimation failed") {
			t.Error("error status missing from header")
		}
	})

	t.Run("drug notes appear only when set", func(t *testing.T) {
		t.Parallel()

		var without bytes.Buffer
		if _, err := NewSimpleWriter(&without).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if strings.Contains(without.String(), "Drug Notes:") {
			t.Error("drug notes line shown with no notes set")
		}

		report := testSimpleReport()
		report.DrugNotes = "Cardiotoxicity risk above cumulative threshold."

		var with bytes.Buffer
		if _, err := NewSimpleWriter(&with).WriteSimple(report); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if !strings.Contains(with.String(), "Drug Notes:     Cardiotoxicity risk above cumulative threshold.") {
			t.Error("drug notes line missing from header")
		}
	})
}

// TestJSONWriter tests the machine-readable writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output is valid json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}

		var decoded model.SimpleReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid json: %v", err)
		}
		if decoded.NanoparticleID != "NP_AB12CD34" || decoded.SafetyScore != 65 {
			t.Errorf("roundtrip mismatch: %+v", decoded)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("output missing trailing newline")
		}
	})

	t.Run("pretty print indents the output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteSimple(testSimpleReport()); err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented output")
		}
	})

	t.Run("full writer wraps with version metadata", func(t *testing.T) {
		t.Parallel()

		np, err := model.NewNanoparticle("onco-lipo-1", "liposome", 100, "doxorubicin", "lipid")
		if err != nil {
			t.Fatalf("NewNanoparticle: %v", err)
		}
		report := model.NewSimulationReport(np, model.TissueTumor, 5.0)

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(report); err != nil {
			t.Fatalf("Write: %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("output is not valid json: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("Version = %q, want 1.2.3", wrapped.Version)
		}
		if wrapped.Report == nil || wrapped.Summary == nil {
			t.Error("wrapper missing report or summary")
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteSimple(testSimpleReport()); err != nil {
		t.Fatalf("WriteSimple: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Nanoparticle Simulation Report",
		"## Biodistribution",
		"**Tumor** (target)",
		"```mermaid",
		"Dose Distribution",
		"## Pharmacokinetics",
		"## Safety Summary",
		"## Findings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// failingWriter always returns an error, for MultiWriter propagation tests.
type failingWriter struct{}

func (failingWriter) Write(*model.SimulationReport) (int, error) {
	return 0, errors.New("write failed")
}

func (failingWriter) WriteSimple(*model.SimpleReport) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every destination and sums bytes", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&first), NewJSONWriter(&second))

		n, err := mw.WriteSimple(testSimpleReport())
		if err != nil {
			t.Fatalf("WriteSimple: %v", err)
		}
		if first.Len() == 0 || second.Len() == 0 {
			t.Error("not all writers received output")
		}
		if n != first.Len()+second.Len() {
			t.Errorf("total = %d, want %d", n, first.Len()+second.Len())
		}
	})

	t.Run("stops on the first failing writer", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))

		if _, err := mw.WriteSimple(testSimpleReport()); err == nil {
			t.Fatal("expected propagated error")
		}
		if after.Len() != 0 {
			t.Error("writer after the failure should not run")
		}
	})
}

// TestDisplayLabel tests snake_case label formatting.
func TestDisplayLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"tumor", "Tumor"},
		{"charge_strong_positive", "Charge Strong Positive"},
		{"res_size_regime", "Res Size Regime"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := displayLabel(tt.in); got != tt.want {
				t.Errorf("displayLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestTruncateString tests ellipsis truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short, 10) = %q", got)
	}
	long := strings.Repeat("a", 70)
	got := truncateString(long, 60)
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateString = %q, want 60 chars ending in ...", got)
	}
}
