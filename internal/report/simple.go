package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nanomedlab/nanomed/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and risk-coded finding markers.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// titleCaser converts snake_case identifiers into display labels.
var titleCaser = cases.Title(language.English)

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// It generates a SimpleReport from the SimulationReport if not already present.
func (w *SimpleWriter) Write(report *model.SimulationReport) (int, error) {
	simple := report.SimpleReport
	if simple == nil {
		simple = model.NewSimpleReport(report)
	}

	return w.WriteSimple(simple)
}

// WriteSimple outputs the simple report in human-readable format.
func (w *SimpleWriter) WriteSimple(report *model.SimpleReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeBiodistribution(&sb, report)
	w.writePharmacokinetics(&sb, report)
	w.writeSafety(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// displayLabel turns a snake_case identifier into a human-friendly label.
func displayLabel(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// writeHeader writes the report header with simulation information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      NANOMED SIMULATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Formulation:    %s (%s)\n", report.Name, report.NanoparticleID))
	sb.WriteString(fmt.Sprintf("Drug Payload:   %s\n", report.DrugPayload))
	if report.DrugNotes != "" {
		sb.WriteString(fmt.Sprintf("Drug Notes:     %s\n", report.DrugNotes))
	}
	sb.WriteString(fmt.Sprintf("Target Tissue:  %s\n", displayLabel(string(report.TargetTissue))))
	sb.WriteString(fmt.Sprintf("Dose:           %.2f mg\n", report.DoseMg))
	sb.WriteString(fmt.Sprintf("Simulated:      %s\n", report.DateSimulated.Format("2006-01-02 15:04:05 MST")))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeBiodistribution writes the per-tissue accumulation section.
func (w *SimpleWriter) writeBiodistribution(sb *strings.Builder, report *model.SimpleReport) {
	if len(report.Accumulation) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("BIODISTRIBUTION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Accumulation) == 0 {
		sb.WriteString("  Not computed\n\n")
		return
	}

	for _, row := range report.Accumulation {
		marker := " "
		if row.Tissue == report.TargetTissue {
			marker = ">"
		}
		sb.WriteString(fmt.Sprintf("  %s %-10s %6.2f%%  (%.3f mg)\n",
			marker,
			displayLabel(string(row.Tissue)),
			row.Fraction*100,
			row.AmountMg,
		))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Target delivery: %.2f%% of dose\n", report.TargetFraction*100))
	sb.WriteString(fmt.Sprintf("  Cleared:         %.2f%% of dose\n", report.ClearedFraction*100))
	sb.WriteString("\n")
}

// writePharmacokinetics writes the concentration-time metrics section.
func (w *SimpleWriter) writePharmacokinetics(sb *strings.Builder, report *model.SimpleReport) {
	if report.CmaxUgMl == 0 && report.HalfLifeH == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PHARMACOKINETICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Cmax:       %.3f ug/mL\n", report.CmaxUgMl))
	sb.WriteString(fmt.Sprintf("  Tmax:       %.2f h\n", report.TmaxH))
	sb.WriteString(fmt.Sprintf("  AUC:        %.2f ug*h/mL\n", report.AUCUgHMl))
	sb.WriteString(fmt.Sprintf("  Half-life:  %.2f h\n", report.HalfLifeH))
	sb.WriteString("\n")
}

// writeSafety writes the safety score summary section.
func (w *SimpleWriter) writeSafety(sb *strings.Builder, report *model.SimpleReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SAFETY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Safety Score: %.1f / 100\n", report.SafetyScore))
	sb.WriteString(fmt.Sprintf("  Risk Level:   %s\n", report.RiskText))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", report.HighCount))
	sb.WriteString(fmt.Sprintf("  MODERATE: %d\n", report.ModerateCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", report.LowCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", report.TotalFindings()))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by risk level.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.SimpleReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Write findings in order of risk (high first)
	levels := []model.RiskLevel{
		model.RiskHigh,
		model.RiskModerate,
		model.RiskLow,
	}

	for _, level := range levels {
		findings := report.FindingsByLevel(level)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForLevel(sb, level, findings)
	}
}

// writeFindingsForLevel writes findings of a specific risk level.
func (w *SimpleWriter) writeFindingsForLevel(sb *strings.Builder, level model.RiskLevel, findings []model.Finding) {
	indicator := w.getRiskIndicator(level)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, level.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", displayLabel(finding.Type)))
		if finding.Impact != "" {
			sb.WriteString(fmt.Sprintf("    Impact: %s\n", finding.Impact))
		}
		if w.verbose && finding.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", finding.Recommendation))
		}
	}
	sb.WriteString("\n")
}

// getRiskIndicator returns a visual indicator for the risk level.
func (w *SimpleWriter) getRiskIndicator(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "!!"
	case model.RiskModerate:
		return "!"
	case model.RiskLow:
		return "-"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by nanomed\n")
	sb.WriteString("https://github.com/nanomedlab/nanomed\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
