package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for evlog.

To load completions:

Bash:
  $ source <(evlog completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ evlog completion bash > /etc/bash_completion.d/evlog
  # macOS:
  $ evlog completion bash > $(brew --prefix)/etc/bash_completion.d/evlog

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ evlog completion zsh > "${fpath[1]}/_evlog"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ evlog completion fish | source

  # To load completions for each session, execute once:
  $ evlog completion fish > ~/.config/fish/completions/evlog.fish

PowerShell:
  PS> evlog completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> evlog completion powershell > evlog.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}

	return cmd
}

// registerCompletions adds custom completion functions to the query commands.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("archive-backend") != nil {
			_ = cmd.RegisterFlagCompletionFunc("archive-backend", completeArchiveBackends)
		}
		if cmd.Flags().Lookup("output") != nil {
			_ = cmd.RegisterFlagCompletionFunc("output", completeOutputFormats)
		}
		if cmd.Flags().Lookup("source") != nil {
			_ = cmd.RegisterFlagCompletionFunc("source", completeSources)
		}
		if cmd.Name() == "history" {
			cmd.ValidArgsFunction = completeArchiveDates
		}
	}
}

func completeArchiveBackends(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return backend.RegisteredTypes(), cobra.ShellCompDirectiveNoFileComp
}

func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{outputTable, outputJSON, outputYAML}, cobra.ShellCompDirectiveNoFileComp
}

// completeSources lists the recent live sources, or nothing if the host is
// not reachable.
func completeSources(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	accessor, err := newHostAccessor()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	sources, err := newService(accessor, nil).ListSources(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sources, cobra.ShellCompDirectiveNoFileComp
}

// completeArchiveDates lists archived days for the history date argument.
func completeArchiveDates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var flags archiveFlags
	flags.backendType, _ = cmd.Flags().GetString("archive-backend")
	flags.backendConfig, _ = cmd.Flags().GetStringArray("archive-config")

	arch, err := openArchive(flags)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dates, err := newService(nil, arch).ListDates(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return dates, cobra.ShellCompDirectiveNoFileComp
}
