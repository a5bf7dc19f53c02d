// Package report renders simulation results for human and machine readers.
//
// Three writers share one Writer interface: SimpleWriter produces plain
// text for terminal display, JSONWriter produces compact or pretty JSON
// for tool integration, and MarkdownWriter produces GitHub-flavored
// markdown with a mermaid pie chart of the tissue distribution.
// MultiWriter fans a report out to several destinations at once, which is
// how the CLI writes to both stdout and a report file.
package report
