package cli

import (
	"github.com/spf13/cobra"

	"github.com/davidthor/evlog/pkg/logs"
)

// queryFlags are the paging, filter and output flags of live and history.
type queryFlags struct {
	lines  string
	offset string
	source string
	search string
	out    pageOutput
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.lines, "lines", "n", "", "Number of entries per page (1-5000, default from default-line-count)")
	cmd.Flags().StringVar(&f.offset, "offset", "", "Number of newest matching entries to skip")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Only entries from this exact source")
	cmd.Flags().StringVar(&f.search, "search", "", "Only entries whose message contains this text (case-insensitive)")
	cmd.Flags().StringVarP(&f.out.format, "output", "o", outputTable, "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&f.out.timestamps, "timestamps", "t", false, "Show entry timestamps")
	cmd.Flags().BoolVar(&f.out.noColor, "no-color", false, "Disable colored output")
}

// params converts the flags to the string parameters the service parses.
// Unset flags are left out so the service defaults apply.
func (f *queryFlags) params() map[string]string {
	params := map[string]string{}
	if f.lines != "" {
		params["lines"] = f.lines
	}
	if f.offset != "" {
		params["offset"] = f.offset
	}
	if f.source != "" {
		params["source"] = f.source
	}
	if f.search != "" {
		params["search"] = f.search
	}
	return params
}

// effectiveOffset is the offset the service will use, for the summary line.
func (f *queryFlags) effectiveOffset() int {
	return logs.ParseQuery(f.params(), 0).Offset
}

func newLiveCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show a page of the live event log",
		Long: `Show a page of the event log the server keeps in memory.

Pages count back from the newest entry: --offset skips that many of the
newest matching entries and --lines sets the page size. Entries are printed
oldest first.

Examples:
  evlog live                           # The newest 500 entries
  evlog live -n 50 --offset 50         # The 50 entries before the newest 50
  evlog live --source "Z-Wave"         # Only Z-Wave entries
  evlog live --search "timeout" -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(flags.out.format); err != nil {
				return err
			}

			accessor, err := newHostAccessor()
			if err != nil {
				return err
			}

			result, err := newService(accessor, nil).QueryLive(cmd.Context(), flags.params())
			if err != nil {
				return err
			}

			return writePage(cmd.OutOrStdout(), result, flags.effectiveOffset(), flags.out)
		},
	}

	flags.register(cmd)

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		flags       queryFlags
		archiveOpts archiveFlags
	)

	cmd := &cobra.Command{
		Use:   "history <date>",
		Short: "Show a page of an archived day",
		Long: `Show a page of the archive file for one day (YYYY-MM-DD).

Paging and filters work as for 'evlog live'. A day without an archive file
shows no entries. Use 'evlog dates' to list the archived days.

Like the live log, a page is cut from the newest (offset+lines+1) entries
of the day, multiplied by filter-multiplier when --source or --search is
set and capped at 10000. A narrow filter can therefore show fewer entries,
and report no more, while older matches remain earlier in the day.

Examples:
  evlog history 2024-01-05
  evlog history 2024-01-05 --search "error" -n 20
  evlog history 2024-01-05 --archive-backend s3 --archive-config bucket=indigo-logs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(flags.out.format); err != nil {
				return err
			}

			arch, err := openArchive(archiveOpts)
			if err != nil {
				return err
			}

			result, err := newService(nil, arch).QueryHistory(cmd.Context(), args[0], flags.params())
			if err != nil {
				return err
			}

			return writePage(cmd.OutOrStdout(), result, flags.effectiveOffset(), flags.out)
		},
	}

	flags.register(cmd)
	registerArchiveFlags(cmd, &archiveOpts)

	return cmd
}

func registerArchiveFlags(cmd *cobra.Command, flags *archiveFlags) {
	cmd.Flags().StringVar(&flags.backendType, "archive-backend", "", "Archive backend type (local, s3, gcs, azurerm)")
	cmd.Flags().StringArrayVar(&flags.backendConfig, "archive-config", nil, "Archive backend configuration (key=value)")
}
