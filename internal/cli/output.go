package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/davidthor/evlog/pkg/errors"
	"github.com/davidthor/evlog/pkg/logs"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return errors.ValidationError(
			fmt.Sprintf("unknown output format %q (use table, json or yaml)", format),
			map[string]interface{}{"output": format},
		)
	}
}

// colorEnabled reports whether ANSI colors should be written to w.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeStructured marshals v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// writePage renders a query result.
func writePage(w io.Writer, result *logs.PageResult, offset int, opts pageOutput) error {
	if opts.format != outputTable {
		return writeStructured(w, opts.format, result)
	}

	if result.Count == 0 {
		fmt.Fprintln(w, "No matching entries.")
		return nil
	}

	logs.FormatPage(w, result, logs.FormatOptions{
		ShowTimestamps: opts.timestamps,
		NoColor:        !colorEnabled(w, opts.noColor),
	})
	fmt.Fprintln(w)
	logs.FormatSummary(w, result, offset)
	return nil
}

// writeList renders a catalog. Structured formats wrap the items under key.
func writeList(w io.Writer, format, key string, items []string) error {
	if format != outputTable {
		return writeStructured(w, format, map[string][]string{key: items})
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No %s found.\n", key)
		return nil
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
	return nil
}

// pageOutput holds the presentation flags of the query commands.
type pageOutput struct {
	format     string
	timestamps bool
	noColor    bool
}
