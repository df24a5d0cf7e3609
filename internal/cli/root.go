// Package cli implements the evlog CLI commands.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidthor/evlog/internal/logging"

	// Import archive backends to register them via init()
	_ "github.com/davidthor/evlog/pkg/archive/backend/azurerm"
	_ "github.com/davidthor/evlog/pkg/archive/backend/gcs"
	_ "github.com/davidthor/evlog/pkg/archive/backend/local"
	_ "github.com/davidthor/evlog/pkg/archive/backend/s3"

	// Register host accessors
	_ "github.com/davidthor/evlog/pkg/logs/hostapi"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evlog",
		Short: "Page through a home automation server's event log",
		Long: `evlog reads the event log of a home automation server.

It pages through the live log the server keeps in memory and through the
dated archive files the server writes to its Logs folder, with optional
source and text filters. The same queries are available over HTTP with
'evlog serve'.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Text, logging.ParseLevel(viper.GetString(ConfigKeyLogLevel)))
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.evlog/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(ConfigKeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	cmd.AddCommand(newLiveCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newSourcesCmd())
	cmd.AddCommand(newDatesCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd())

	registerCompletions(cmd)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetEnvPrefix("EVLOG")
	viper.AutomaticEnv()
	setConfigDefaults()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".evlog"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Read config file if it exists
	_ = viper.ReadInConfig()
}
