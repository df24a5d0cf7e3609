package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidthor/evlog/internal/api"
	"github.com/davidthor/evlog/internal/logging"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr  string
		archiveOpts archiveFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the event log queries over HTTP",
		Long: `Serve the event log queries as JSON over HTTP.

Routes:
  GET /log?lines=&offset=&source=&search=      Live log page
  GET /history?date=YYYY-MM-DD&lines=&...      Archived day page
  GET /sources                                 Distinct recent sources
  GET /dates                                   Archived days, newest first

Logs are written to stderr as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Init(logging.JSON, logging.ParseLevel(viper.GetString(ConfigKeyLogLevel)))

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			accessor, err := newHostAccessor()
			if err != nil {
				// Archive routes still work without a host.
				logger.Warn("live log unavailable", "error", err)
				accessor = nil
			}

			arch, err := openArchive(archiveOpts)
			if err != nil {
				return err
			}

			svc := newService(accessor, arch)
			svc.Logger = logger
			server := api.NewServer(svc, logger)

			if listenAddr == "" {
				listenAddr = viper.GetString(ConfigKeyListenAddr)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(listenAddr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (default from listen-addr, :8176)")
	registerArchiveFlags(cmd, &archiveOpts)

	return cmd
}
