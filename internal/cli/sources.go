package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/davidthor/evlog/pkg/archive"
	"github.com/davidthor/evlog/pkg/archive/backend"
	"github.com/davidthor/evlog/pkg/errors"
	"github.com/davidthor/evlog/pkg/eventlog"
	"github.com/davidthor/evlog/pkg/logs"
	"github.com/davidthor/evlog/pkg/logs/live"
)

// Environment variable names for archive backend configuration.
const (
	// EnvArchiveBackend sets the archive backend type (local, s3, gcs, azurerm).
	EnvArchiveBackend = "EVLOG_ARCHIVE_BACKEND"

	// EnvArchivePrefix is the prefix for backend-specific config environment variables.
	// For example, EVLOG_ARCHIVE_PATH sets the "path" config for the local backend,
	// EVLOG_ARCHIVE_BUCKET sets the "bucket" config for S3/GCS backends.
	EnvArchivePrefix = "EVLOG_ARCHIVE_"
)

// archiveFlags are the backend selection flags shared by archive commands.
type archiveFlags struct {
	backendType   string
	backendConfig []string
}

// resolveArchiveConfig determines the archive backend and its configuration.
//
// Configuration precedence (highest to lowest):
//  1. CLI flags (--archive-backend, --archive-config)
//  2. Environment variables (EVLOG_ARCHIVE_BACKEND, EVLOG_ARCHIVE_*)
//  3. Defaults (local backend reading <install_dir>/Logs, or ~/.evlog/Logs)
func resolveArchiveConfig(flags archiveFlags) backend.Config {
	// Start with the default
	effectiveBackend := "local"
	effectiveConfig := make(map[string]string)
	if installDir := viper.GetString(ConfigKeyInstallDir); installDir != "" {
		effectiveConfig["path"] = filepath.Join(installDir, "Logs")
	}

	// Apply environment variables
	if envBackend := os.Getenv(EnvArchiveBackend); envBackend != "" {
		effectiveBackend = envBackend
	}

	// Check for backend-specific env vars (EVLOG_ARCHIVE_PATH, EVLOG_ARCHIVE_BUCKET, etc.)
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvArchivePrefix) && !strings.HasPrefix(env, EnvArchiveBackend+"=") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				// Convert EVLOG_ARCHIVE_PATH to "path", EVLOG_ARCHIVE_BUCKET to "bucket", etc.
				key := strings.ToLower(strings.TrimPrefix(parts[0], EnvArchivePrefix))
				effectiveConfig[key] = parts[1]
			}
		}
	}

	// Apply CLI flags (highest priority)
	if flags.backendType != "" {
		effectiveBackend = flags.backendType
	}

	for _, c := range flags.backendConfig {
		parts := strings.SplitN(c, "=", 2)
		if len(parts) == 2 {
			effectiveConfig[parts[0]] = parts[1]
		}
	}

	return backend.Config{
		Type:   effectiveBackend,
		Config: effectiveConfig,
	}
}

// openArchive creates the archive reader for the resolved backend.
func openArchive(flags archiveFlags) (*archive.Archive, error) {
	b, err := backend.Create(resolveArchiveConfig(flags))
	if err != nil {
		return nil, fmt.Errorf("failed to create archive backend: %w", err)
	}
	return archive.New(b), nil
}

// newHostAccessor creates the host accessor named by host_type.
func newHostAccessor() (live.Accessor, error) {
	endpoint := viper.GetString(ConfigKeyHostEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("no host endpoint configured\n\n" +
			"Set one using:\n" +
			"  EVLOG_HOST_ENDPOINT environment variable\n" +
			"  evlog config set host-endpoint <url>")
	}

	order := viper.GetString(ConfigKeyHostOrder)
	if order != logs.OldestFirst.String() && order != logs.NewestFirst.String() {
		return nil, errors.ValidationError(
			fmt.Sprintf("unknown host order %q (use oldest-first or newest-first)", order), nil,
		).WithDetail("host_order", order)
	}

	return live.NewAccessor(viper.GetString(ConfigKeyHostType), live.Config{
		Endpoint: endpoint,
		Order:    logs.ParseOrder(order),
	})
}

// newService builds the query service from configuration. Either source may
// be nil for commands that do not use it.
func newService(accessor live.Accessor, arch *archive.Archive) *eventlog.Service {
	return eventlog.NewService(accessor, arch, eventlog.Options{
		DefaultLines:     viper.GetInt(ConfigKeyDefaultLines),
		FilterMultiplier: viper.GetInt(ConfigKeyFilterMultiplier),
	})
}
