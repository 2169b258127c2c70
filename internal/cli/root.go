// Package cli defines the cobra command tree for the tmcheck CLI.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scbrown/tmcheck/internal/config"
)

var (
	jsonOutput bool
	verbose    bool

	// cfg and logger are set by the root command before any subcommand runs.
	cfg    = &config.Config{}
	logger = zap.NewNop()
)

// rootCmd is the top-level tmcheck command.
var rootCmd = &cobra.Command{
	Use:   "tmcheck",
	Short: "tmcheck - flag trademark risk in marketplace listings",
	Long: `tmcheck checks words and phrases against a built-in dictionary of known
trademarks and, when an API key is configured, a remote trademark registry.
It can check single terms, whole listings (title and tags) or page text,
and reports which terms are registered marks, which look similar to one,
and where they occur in the text.

Results are cached (in memory by default, or in SQLite or Redis; see
tmcheck config). All output commands support --json for machine-readable
output. This is a risk signal, not legal advice.`,
	Example: `  # Check a few terms
  tmcheck check nike "air jordan" pottery

  # Check a listing the way the extension does
  tmcheck listing --title "Vintage Nike Air sneakers" --tag shoes --tag retro

  # Scan an HTML description
  tmcheck scan --html description.html

  # Serve the HTTP API for the browser extension
  tmcheck serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		loaded.ApplyEnv()
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}
		cfg = loaded
		if cfg.DefaultFormat == "json" && !cmd.Flags().Changed("json") {
			jsonOutput = true
		}
		logger = newLogger(cmd.ErrOrStderr(), verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log lookups and cache activity to stderr")
}

// newLogger builds a console logger on w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// stdin is the reader used for "-" inputs, settable for testing.
var stdin io.Reader = os.Stdin
