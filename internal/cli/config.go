package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidthor/evlog/pkg/logs"
)

// Configuration keys. Each can also be set through its EVLOG_<KEY>
// environment variable.
const (
	// ConfigKeyDefaultLines is the page size used when --lines is absent or malformed.
	ConfigKeyDefaultLines = "default_line_count"

	// ConfigKeyFilterMultiplier scales the raw fetch when a filter is active.
	ConfigKeyFilterMultiplier = "filter_multiplier"

	// ConfigKeyHostType selects the registered host accessor.
	ConfigKeyHostType = "host_type"

	// ConfigKeyHostEndpoint is the URL of the host's event log.
	ConfigKeyHostEndpoint = "host_endpoint"

	// ConfigKeyHostOrder is the order the host returns records in.
	ConfigKeyHostOrder = "host_order"

	// ConfigKeyInstallDir is the host's install folder. Its Logs folder is
	// the default archive location.
	ConfigKeyInstallDir = "install_dir"

	// ConfigKeyLogLevel is the level of evlog's own diagnostics.
	ConfigKeyLogLevel = "log_level"

	// ConfigKeyListenAddr is the address 'evlog serve' listens on.
	ConfigKeyListenAddr = "listen_addr"
)

// configDefaults holds every settable key with its default value.
var configDefaults = map[string]any{
	ConfigKeyDefaultLines:     logs.DefaultLines,
	ConfigKeyFilterMultiplier: logs.DefaultBudget.FilterMultiplier,
	ConfigKeyHostType:         "http",
	ConfigKeyHostEndpoint:     "",
	ConfigKeyHostOrder:        logs.OldestFirst.String(),
	ConfigKeyInstallDir:       "",
	ConfigKeyLogLevel:         "info",
	ConfigKeyListenAddr:       ":8176",
}

func setConfigDefaults() {
	for key, value := range configDefaults {
		viper.SetDefault(key, value)
	}
}

func configKeys() []string {
	keys := make([]string, 0, len(configDefaults))
	for key := range configDefaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func availableKeysHelp() string {
	var sb strings.Builder
	sb.WriteString("Available keys:")
	for _, key := range configKeys() {
		sb.WriteString("\n  ")
		sb.WriteString(strings.ReplaceAll(key, "_", "-"))
	}
	return sb.String()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  `Get and set evlog configuration values stored in ~/.evlog/config.yaml.`,
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.evlog/config.yaml.

` + availableKeysHelp() + `

Examples:
  evlog config set host-endpoint http://indigo.local:8176/log
  evlog config set default-line-count 200`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			// Normalize key names: allow dashes in CLI, store with underscores
			viperKey := normalizeConfigKey(key)
			if _, ok := configDefaults[viperKey]; !ok {
				return fmt.Errorf("unknown configuration key %q\n\n%s", key, availableKeysHelp())
			}

			viper.Set(viperKey, value)
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value. Environment variables and defaults apply.

Examples:
  evlog config get host-endpoint`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			viperKey := normalizeConfigKey(key)

			value := viper.GetString(viperKey)
			if value == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not set\n", key)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), value)
			}
			return nil
		},
	}

	return cmd
}

func newConfigListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  `List every configuration key with its effective value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration:")
			for _, key := range configKeys() {
				value := viper.GetString(key)
				if value == "" {
					value = "(not set)"
				}
				fmt.Fprintf(out, "  %s = %s\n", strings.ReplaceAll(key, "_", "-"), value)
			}
			return nil
		},
	}

	return cmd
}

// writeConfig writes the current viper config to the config file.
func writeConfig() error {
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".evlog")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	return viper.WriteConfigAs(configPath)
}

// normalizeConfigKey converts CLI-style keys (with dashes) to viper-style keys (with underscores).
func normalizeConfigKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}
