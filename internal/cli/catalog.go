package cli

import (
	"github.com/spf13/cobra"
)

func newSourcesCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the sources in the recent live log",
		Long: `List the distinct, non-empty sources among the most recent 2000 live
log entries, sorted alphabetically. Use them with --source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(outputFormat); err != nil {
				return err
			}

			accessor, err := newHostAccessor()
			if err != nil {
				return err
			}

			sources, err := newService(accessor, nil).ListSources(cmd.Context())
			if err != nil {
				return err
			}

			return writeList(cmd.OutOrStdout(), outputFormat, "sources", sources)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", outputTable, "Output format: table, json, yaml")

	return cmd
}

func newDatesCmd() *cobra.Command {
	var (
		outputFormat string
		archiveOpts  archiveFlags
	)

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List the archived days",
		Long:  `List the days that have an archive file, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(outputFormat); err != nil {
				return err
			}

			arch, err := openArchive(archiveOpts)
			if err != nil {
				return err
			}

			dates, err := newService(nil, arch).ListDates(cmd.Context())
			if err != nil {
				return err
			}

			return writeList(cmd.OutOrStdout(), outputFormat, "dates", dates)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", outputTable, "Output format: table, json, yaml")
	registerArchiveFlags(cmd, &archiveOpts)

	return cmd
}
