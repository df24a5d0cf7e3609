package logs

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for source label prefixes.
var colors = []string{
	"\033[36m", // cyan
	"\033[33m", // yellow
	"\033[32m", // green
	"\033[35m", // magenta
	"\033[34m", // blue
	"\033[31m", // red
	"\033[96m", // bright cyan
	"\033[93m", // bright yellow
	"\033[92m", // bright green
	"\033[95m", // bright magenta
}

const colorReset = "\033[0m"

// unlabeled is printed for entries with an empty source.
const unlabeled = "-"

// FormatOptions configures how a page is written for humans.
type FormatOptions struct {
	// ShowTimestamps prefixes each entry with its timestamp.
	ShowTimestamps bool

	// NoColor disables ANSI color codes in the output.
	NoColor bool
}

// FormatPage writes the page's entries oldest-first with aligned,
// color-coded source labels. Continuation lines of multi-line messages are
// indented under the message column.
func FormatPage(w io.Writer, result *PageResult, opts FormatOptions) {
	if result == nil || len(result.Entries) == 0 {
		return
	}

	maxLen := 0
	for _, entry := range result.Entries {
		if n := len(entryLabel(entry)); n > maxLen {
			maxLen = n
		}
	}

	colorMap := buildColorMap(result.Entries, opts.NoColor)

	for _, entry := range result.Entries {
		writeEntry(w, entry, maxLen, colorMap, opts)
	}
}

// FormatSummary writes a one-line description of the page's position.
func FormatSummary(w io.Writer, result *PageResult, offset int) {
	if result == nil {
		return
	}
	more := ""
	if result.HasMore {
		more = fmt.Sprintf(" (more: --offset %d)", offset+result.Count)
	}
	fmt.Fprintf(w, "%d of %d matching entries%s\n", result.Count, result.TotalFiltered, more)
}

func entryLabel(entry Entry) string {
	if entry.Source == "" {
		return unlabeled
	}
	return entry.Source
}

// buildColorMap assigns a color to each source in order of first appearance.
func buildColorMap(entries []Entry, noColor bool) map[string]string {
	if noColor {
		return map[string]string{}
	}

	colorMap := map[string]string{}
	for _, entry := range entries {
		label := entryLabel(entry)
		if _, ok := colorMap[label]; !ok {
			colorMap[label] = colors[len(colorMap)%len(colors)]
		}
	}
	return colorMap
}

func writeEntry(w io.Writer, entry Entry, maxLen int, colorMap map[string]string, opts FormatOptions) {
	var sb strings.Builder
	label := entryLabel(entry)

	color := colorMap[label]
	if color != "" {
		sb.WriteString(color)
	}

	sb.WriteString(fmt.Sprintf("%-*s", maxLen, label))
	sb.WriteString(" | ")

	if color != "" {
		sb.WriteString(colorReset)
	}

	prefixLen := maxLen + 3
	if opts.ShowTimestamps {
		sb.WriteString(entry.Timestamp)
		sb.WriteString("  ")
		prefixLen += len(entry.Timestamp) + 2
	}

	lines := strings.Split(entry.Message, "\n")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, cont := range lines[1:] {
		sb.WriteString(strings.Repeat(" ", prefixLen))
		sb.WriteString(cont)
		sb.WriteString("\n")
	}

	fmt.Fprint(w, sb.String())
}
