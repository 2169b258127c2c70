package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the result cache",
	Long: `Cache shows statistics for, or clears, the configured result cache.
Only the sqlite and redis backends outlive a single command; the default
memory cache is empty at the start of every run.`,
	Example: `  tmcheck cache stats
  tmcheck cache clear`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache backend, size and expiry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer c.Close()

		stats, err := c.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("cache stats: %w", err)
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, stats)
		}
		writeCacheStats(w, stats)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, map[string]bool{"cleared": true})
		}
		fmt.Fprintln(w, "Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func writeCacheStats(w io.Writer, s cache.Stats) {
	tbl := NewTable(w)
	tbl.Row(tbl.Bold("Backend:"), s.Backend)
	if s.Location != "" {
		loc := s.Location
		if info, err := os.Stat(s.Location); err == nil {
			loc += " (" + humanize.Bytes(uint64(info.Size())) + ")"
		}
		tbl.Row(tbl.Bold("Location:"), loc)
	}
	tbl.Row(tbl.Bold("Entries:"), humanize.Comma(int64(s.Entries)))
	tbl.Row(tbl.Bold("Expired:"), humanize.Comma(int64(s.Expired)))
	tbl.Row(tbl.Bold("TTL:"), formatTTL(s.TTL))
	tbl.Flush()
}

// formatTTL renders whole durations without trailing zero units ("1h", "90m").
func formatTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}
