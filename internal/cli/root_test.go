package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/analyze"
	"github.com/scbrown/tmcheck/internal/config"
)

// runCLI executes the root command with args against a config file in a
// temp dir seeded from file (nil for none). It returns stdout.
func runCLI(t *testing.T, file *config.Config, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if file != nil {
		require.NoError(t, file.SaveTo(path), "seed config")
	}
	return runWithConfig(t, path, nil, args...)
}

// runWithConfig executes args against the config file at path, feeding
// input (if non-nil) to commands that read "-".
func runWithConfig(t *testing.T, path string, input io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvRegistryKey, "")
	resetCLI()
	configPath = path
	if input != nil {
		stdin = input
	}
	t.Cleanup(func() {
		configPath = config.Path()
		resetCLI()
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return stdout.String(), err
}

// resetCLI restores package-level flag variables between executions.
func resetCLI() {
	jsonOutput = false
	verbose = false
	cfg = &config.Config{}
	stdin = os.Stdin
	listingTitle, listingTags, listingMax = "", nil, 0
	scanHTML, scanURL, scanName = false, "", "text"
	extractHTML = false
	similarKnown, similarThreshold, similarTopN = "", 0, analyze.DefaultTopN
	dictionaryCategory = ""
	resetChanged(rootCmd)
}

func resetChanged(c *cobra.Command) {
	unset := func(f *pflag.Flag) { f.Changed = false }
	c.Flags().VisitAll(unset)
	c.PersistentFlags().VisitAll(unset)
	for _, sub := range c.Commands() {
		resetChanged(sub)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"check", "listing", "scan", "extract", "similar", "dictionary", "cache", "config", "serve", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) && assert.NotSame(t, rootCmd, cmd, "command %q not registered", name) {
			assert.NotEmpty(t, cmd.Short, "command %q has no short description", name)
		}
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	_, err := runCLI(t, &config.Config{CacheBackend: "etcd"}, "check", "nike")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_backend", "error names the bad key")
}

func TestDefaultFormatJSON(t *testing.T) {
	out, err := runCLI(t, &config.Config{DefaultFormat: "json"}, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "expected JSON, got: %s", out)
	assert.Contains(t, out, `"version"`)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, false)
	l.Debug("hidden")
	l.Warn("shown")
	l.Sync()
	assert.NotContains(t, buf.String(), "hidden", "debug entry logged without --verbose")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l = newLogger(&buf, true)
	l.Debug("visible")
	l.Sync()
	assert.Contains(t, buf.String(), "visible")
}
