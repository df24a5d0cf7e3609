package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/davidthor/evlog/pkg/logs"
)

// resetConfig gives the test a clean viper state with defaults applied.
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setConfigDefaults()
	t.Cleanup(func() {
		viper.Reset()
		setConfigDefaults()
	})
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// startHost serves a fixed JSON body as the host's event log.
func startHost(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	viper.Set(ConfigKeyHostEndpoint, ts.URL)
	return ts
}

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

const hostBody = `[
	{"Message": "Lamp on", "TypeStr": "Z-Wave", "TypeVal": 1, "TimeStamp": "2024-01-05T10:00:00"},
	{"Message": "Timeout talking\nto device", "TypeStr": "Z-Wave", "TypeVal": 3, "TimeStamp": "2024-01-05T10:00:01"},
	{"Message": "Schedule fired", "TypeStr": "Schedule", "TypeVal": 1, "TimeStamp": "2024-01-05T10:00:02"}
]`

func TestLiveCmd_Table(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)

	out, err := runCmd(t, newLiveCmd(), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "Z-Wave   | Lamp on\n")
	assert.Contains(t, out, "Z-Wave   | Timeout talking\n           to device\n")
	assert.Contains(t, out, "Schedule | Schedule fired\n")
	assert.Contains(t, out, "3 of 3 matching entries")
	assert.NotContains(t, out, "\033[")
}

func TestLiveCmd_JSONWithFilter(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)

	out, err := runCmd(t, newLiveCmd(), "-o", "json", "--source", "Z-Wave", "--lines", "1")
	require.NoError(t, err)

	var result logs.PageResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 2, result.TotalFiltered)
	assert.True(t, result.HasMore)
	assert.Equal(t, "Timeout talking\nto device", result.Entries[0].Message)
	assert.Equal(t, 3, result.Entries[0].Severity)
}

func TestLiveCmd_SummaryPointsToNextOffset(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)

	out, err := runCmd(t, newLiveCmd(), "-n", "1", "--offset", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Timeout talking")
	assert.Contains(t, out, "1 of 3 matching entries (more: --offset 2)")
}

func TestLiveCmd_MalformedNumbersFallBack(t *testing.T) {
	resetConfig(t)
	viper.Set(ConfigKeyDefaultLines, 2)
	startHost(t, hostBody)

	out, err := runCmd(t, newLiveCmd(), "-o", "json", "--lines", "lots", "--offset", "-4")
	require.NoError(t, err)

	var result logs.PageResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Schedule fired", result.Entries[1].Message)
}

func TestLiveCmd_NoEndpoint(t *testing.T) {
	resetConfig(t)

	_, err := runCmd(t, newLiveCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no host endpoint configured")
}

func TestLiveCmd_UnknownHostType(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)
	viper.Set(ConfigKeyHostType, "carrier-pigeon")

	_, err := runCmd(t, newLiveCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLiveCmd_InvalidOutput(t *testing.T) {
	resetConfig(t)

	_, err := runCmd(t, newLiveCmd(), "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
}

func TestLiveCmd_UnknownHostOrder(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)
	viper.Set(ConfigKeyHostOrder, "sideways")

	_, err := runCmd(t, newLiveCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
	assert.Contains(t, err.Error(), "sideways")
}

func TestHistoryCmd(t *testing.T) {
	resetConfig(t)
	dir := writeArchive(t, map[string]string{
		"2024-01-05 Events.txt": "2024-01-05 10:00:00.1\tA\tone\n" +
			"2024-01-05 10:00:00.2\tB\tError two\n" +
			"  trace\n",
	})

	out, err := runCmd(t, newHistoryCmd(), "2024-01-05", "--archive-config", "path="+dir, "--search", "error", "-o", "yaml")
	require.NoError(t, err)

	var result logs.PageResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result), out)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Error two\n  trace", result.Entries[0].Message)
	assert.Equal(t, logs.ArchiveSeverity, result.Entries[0].Severity)
}

func TestHistoryCmd_InstallDir(t *testing.T) {
	resetConfig(t)
	installDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(installDir, "Logs"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(installDir, "Logs", "2024-01-05 Events.txt"),
		[]byte("2024-01-05 10:00:00.1\tA\tone\n"), 0644))
	viper.Set(ConfigKeyInstallDir, installDir)

	out, err := runCmd(t, newHistoryCmd(), "2024-01-05", "--timestamps")
	require.NoError(t, err)
	assert.Contains(t, out, "A | 2024-01-05 10:00:00.1  one")
}

func TestHistoryCmd_HelpDescribesFetchWindow(t *testing.T) {
	cmd := newHistoryCmd()
	assert.Contains(t, cmd.Long, "capped at 10000")
	assert.Contains(t, cmd.Long, "filter-multiplier")
}

func TestHistoryCmd_MissingDay(t *testing.T) {
	resetConfig(t)
	dir := writeArchive(t, nil)

	out, err := runCmd(t, newHistoryCmd(), "2024-01-05", "--archive-config", "path="+dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No matching entries.")
}

func TestHistoryCmd_InvalidDate(t *testing.T) {
	resetConfig(t)
	dir := writeArchive(t, nil)

	_, err := runCmd(t, newHistoryCmd(), "January 5th", "--archive-config", "path="+dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_DATE")
}

func TestHistoryCmd_UnknownBackend(t *testing.T) {
	resetConfig(t)

	_, err := runCmd(t, newHistoryCmd(), "2024-01-05", "--archive-backend", "floppy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floppy")
}

func TestDatesCmd(t *testing.T) {
	resetConfig(t)
	dir := writeArchive(t, map[string]string{
		"2024-01-05 Events.txt": "",
		"2024-01-07 Events.txt": "",
		"notes.txt":             "",
	})

	out, err := runCmd(t, newDatesCmd(), "--archive-config", "path="+dir)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07\n2024-01-05\n", out)

	out, err = runCmd(t, newDatesCmd(), "--archive-config", "path="+dir, "-o", "json")
	require.NoError(t, err)
	var body map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, []string{"2024-01-07", "2024-01-05"}, body["dates"])
}

func TestDatesCmd_Empty(t *testing.T) {
	resetConfig(t)
	dir := writeArchive(t, nil)

	out, err := runCmd(t, newDatesCmd(), "--archive-config", "path="+dir)
	require.NoError(t, err)
	assert.Equal(t, "No dates found.\n", out)
}

func TestSourcesCmd(t *testing.T) {
	resetConfig(t)
	startHost(t, hostBody)

	out, err := runCmd(t, newSourcesCmd())
	require.NoError(t, err)
	assert.Equal(t, "Schedule\nZ-Wave\n", out)

	out, err = runCmd(t, newSourcesCmd(), "-o", "yaml")
	require.NoError(t, err)
	var body map[string][]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &body))
	assert.Equal(t, []string{"Schedule", "Z-Wave"}, body["sources"])
}

func TestResolveArchiveConfig_Precedence(t *testing.T) {
	resetConfig(t)
	viper.Set(ConfigKeyInstallDir, "/opt/indigo")

	cfg := resolveArchiveConfig(archiveFlags{})
	assert.Equal(t, "local", cfg.Type)
	assert.Equal(t, filepath.Join("/opt/indigo", "Logs"), cfg.Config["path"])

	t.Setenv(EnvArchiveBackend, "s3")
	t.Setenv("EVLOG_ARCHIVE_BUCKET", "env-bucket")
	t.Setenv("EVLOG_ARCHIVE_REGION", "eu-west-1")

	cfg = resolveArchiveConfig(archiveFlags{})
	assert.Equal(t, "s3", cfg.Type)
	assert.Equal(t, "env-bucket", cfg.Config["bucket"])
	assert.Equal(t, "eu-west-1", cfg.Config["region"])
	assert.NotContains(t, cfg.Config, "backend")

	cfg = resolveArchiveConfig(archiveFlags{
		backendType:   "gcs",
		backendConfig: []string{"bucket=flag-bucket", "malformed"},
	})
	assert.Equal(t, "gcs", cfg.Type)
	assert.Equal(t, "flag-bucket", cfg.Config["bucket"])
	assert.Equal(t, "eu-west-1", cfg.Config["region"])
}

func TestConfigCommands(t *testing.T) {
	resetConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	prev := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prev })
	viper.SetConfigFile(configPath)

	out, err := runCmd(t, newConfigCmd(), "set", "host-endpoint", "http://indigo.local:8176/log")
	require.NoError(t, err)
	assert.Equal(t, "Set host-endpoint = http://indigo.local:8176/log\n", out)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "host_endpoint:")
	assert.Contains(t, string(data), "indigo.local:8176/log")

	out, err = runCmd(t, newConfigCmd(), "get", "host-endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://indigo.local:8176/log\n", out)

	out, err = runCmd(t, newConfigCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "  default-line-count = 500\n")
	assert.Contains(t, out, "  install-dir = (not set)\n")
	assert.Contains(t, out, "  listen-addr = :8176\n")
}

func TestConfigSet_UnknownKey(t *testing.T) {
	resetConfig(t)

	_, err := runCmd(t, newConfigCmd(), "set", "favourite-colour", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration key")
	assert.Contains(t, err.Error(), "host-endpoint")
}

func TestNormalizeConfigKey(t *testing.T) {
	assert.Equal(t, "default_line_count", normalizeConfigKey("default-line-count"))
	assert.Equal(t, "host_order", normalizeConfigKey("HOST-ORDER"))
	assert.Equal(t, "log_level", normalizeConfigKey("log_level"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"live", "history", "sources", "dates", "serve", "config", "completion", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestCompletionCmd(t *testing.T) {
	root := newRootCmd()

	out, err := runCmd(t, root, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "evlog")
}

func TestCompleteArchiveBackends(t *testing.T) {
	backends, _ := completeArchiveBackends(nil, nil, "")
	for _, want := range []string{"azurerm", "gcs", "local", "s3"} {
		assert.Contains(t, backends, want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, newVersionCmd())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "evlog dev"), out)
}
