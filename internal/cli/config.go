package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or modify configuration",
	Long: `View or change tmcheck configuration stored in ~/.tmcheck/config.toml.

With no subcommand, shows all configuration settings.

Settings:
  registry_url      Trademark registry base URL
  registry_key      Registry API key (or TMCHECK_REGISTRY_KEY); unset means dictionary only
  registry_host     X-RapidAPI-Host header (defaults to the URL's host)
  verify            Re-check dictionary hits against the registry (default true)
  registry_timeout  Per-request registry timeout (default 10s)
  cache_backend     "memory", "sqlite" or "redis"
  cache_path        SQLite cache file (default ~/.tmcheck/cache.db)
  redis_url         Redis URL for the redis backend
  cache_ttl         How long results stay cached (default 1h)
  max_details       Trademarks listed per report (default 5)
  min_word_length   Shortest word extracted from text (default 3)
  dictionary_path   YAML file replacing the built-in dictionary
  concurrency       Parallel lookups per batch (default 4)
  heuristic         Flag a random share of unknown terms as potential marks
  default_format    Default output format: "table" or "json"`,
	Example: `  tmcheck config
  tmcheck config get cache_backend
  tmcheck config set cache_backend sqlite
  tmcheck config set registry_key abc123
  tmcheck config set verify false`,
	Args: cobra.NoArgs,
	// Replaces the root hook so a file that fails validation can still be
	// inspected and repaired.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		val, err := file.Get(args[0])
		if err != nil {
			return err
		}
		if val != "" {
			fmt.Fprintln(cmd.OutOrStdout(), val)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value (omit the value to reset it)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) == 2 {
			value = args[1]
		}
		// Edit the file as written, without environment overrides.
		file, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := file.Set(args[0], value); err != nil {
			return err
		}
		if err := file.SaveTo(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
		return nil
	},
}

// configPath is the path to the config file, settable for testing.
var configPath = config.Path()

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func showConfig(w io.Writer) error {
	file, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if jsonOutput {
		if file.RegistryKey != "" {
			file.RegistryKey = maskSecret(file.RegistryKey)
		}
		return printJSON(w, file)
	}

	tbl := NewTable(w, "KEY", "VALUE")
	for _, key := range config.ValidKeys() {
		val, _ := file.Get(key)
		if val == "" {
			val = "(not set)"
		} else if key == "registry_key" {
			val = maskSecret(val)
		}
		tbl.Row(key, val)
	}
	return tbl.Flush()
}

// maskSecret hides all but the last four characters of an API key.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
