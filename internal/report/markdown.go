package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nanomedlab/nanomed/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SimulationReport) (int, error) {
	simple := report.SimpleReport
	if simple == nil {
		simple = model.NewSimpleReport(report)
	}

	return w.WriteSimple(simple)
}

// WriteSimple outputs the simple report in Markdown format.
func (w *MarkdownWriter) WriteSimple(report *model.SimpleReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBiodistribution(md, report)
	w.writePharmacokinetics(md, report)
	w.writeSafety(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with simulation information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SimpleReport) {
	md.H1("Nanoparticle Simulation Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Formulation", report.Name + " (`" + report.NanoparticleID + "`)"},
			{"Drug Payload", report.DrugPayload},
			{"Target Tissue", displayLabel(string(report.TargetTissue))},
			{"Dose", fmt.Sprintf("%.2f mg", report.DoseMg)},
			{"Simulated", report.DateSimulated.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.SimpleReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeBiodistribution writes the tissue accumulation section.
func (w *MarkdownWriter) writeBiodistribution(md *markdown.Markdown, report *model.SimpleReport) {
	md.H2("Biodistribution")
	md.PlainText("")

	if len(report.Accumulation) == 0 {
		md.PlainText("Not computed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Accumulation)+1)
	for _, row := range report.Accumulation {
		label := displayLabel(string(row.Tissue))
		if row.Tissue == report.TargetTissue {
			label = "**" + label + "** (target)"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.2f%%", row.Fraction*100),
			fmt.Sprintf("%.3f mg", row.AmountMg),
		})
	}
	rows = append(rows, []string{
		"Cleared",
		fmt.Sprintf("%.2f%%", report.ClearedFraction*100),
		"-",
	})

	md.Table(markdown.TableSet{
		Header: []string{"Tissue", "Fraction of Dose", "Amount"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// writePieChart writes a mermaid pie chart of the tissue distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.SimpleReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Dose Distribution"),
		piechart.WithShowData(true),
	)

	for _, row := range report.Accumulation {
		// Pie segments take integer values; use basis points for precision.
		bps := uint64(row.Fraction * 10000)
		if bps == 0 {
			continue
		}
		chart.LabelAndIntValue(displayLabel(string(row.Tissue)), bps)
	}
	if cleared := uint64(report.ClearedFraction * 10000); cleared > 0 {
		chart.LabelAndIntValue("Cleared", cleared)
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePharmacokinetics writes the concentration-time metrics section.
func (w *MarkdownWriter) writePharmacokinetics(md *markdown.Markdown, report *model.SimpleReport) {
	md.H2("Pharmacokinetics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Cmax", fmt.Sprintf("%.3f ug/mL", report.CmaxUgMl)},
			{"Tmax", fmt.Sprintf("%.2f h", report.TmaxH)},
			{"AUC", fmt.Sprintf("%.2f ug*h/mL", report.AUCUgHMl)},
			{"Half-life", fmt.Sprintf("%.2f h", report.HalfLifeH)},
		},
	})
	md.PlainText("")
}

// writeSafety writes the safety summary section with risk counts.
func (w *MarkdownWriter) writeSafety(md *markdown.Markdown, report *model.SimpleReport) {
	md.H2("Safety Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Risk Level", "Count"},
		Rows: [][]string{
			{"🔴 High", strconv.Itoa(report.HighCount)},
			{"🟡 Moderate", strconv.Itoa(report.ModerateCount)},
			{"🔵 Low", strconv.Itoa(report.LowCount)},
			{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	md.PlainTextf("Safety score: **%.1f / 100** (%s risk)", report.SafetyScore, report.RiskText)
	md.PlainText("")

	w.writeAlert(md, report)
}

// writeAlert writes an appropriate alert based on the risk assessment.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.SimpleReport) {
	switch {
	case report.HighCount > 0:
		md.Warningf(
			"High-risk characteristics detected. %d high-risk finding(s) should be addressed before advancing this formulation.",
			report.HighCount,
		)
	case report.ModerateCount > 0:
		md.Importantf(
			"Moderate-risk characteristics found. %d finding(s) may affect tolerability.",
			report.ModerateCount,
		)
	case report.TotalFindings() > 0:
		md.Note("Only low-risk advisory findings detected.")
	default:
		md.Tip("No safety concerns detected for this formulation.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by risk level.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.SimpleReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No advisory findings.")
		md.PlainText("")
		return
	}

	levels := []struct {
		level  model.RiskLevel
		header string
	}{
		{model.RiskHigh, "### 🔴 High"},
		{model.RiskModerate, "### 🟡 Moderate"},
		{model.RiskLow, "### 🔵 Low"},
	}

	for _, lvl := range levels {
		findings := report.FindingsByLevel(lvl.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(lvl.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Finding", "Impact", "Recommendation"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		impact := f.Impact
		if impact == "" {
			impact = "-"
		}
		rec := f.Recommendation
		if rec == "" {
			rec = "-"
		}

		rows[i] = []string{
			displayLabel(f.Type),
			truncateString(impact, 60),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nanomed](https://github.com/nanomedlab/nanomed)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
