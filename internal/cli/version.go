package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/dictionary"
)

// Version and Commit are set at build time via -ldflags.
//
//	go build -ldflags "-X github.com/scbrown/tmcheck/internal/cli.Version=v0.2.0
//	  -X github.com/scbrown/tmcheck/internal/cli.Commit=48cae1d"
var (
	Version = ""
	Commit  = ""
)

// versionInfo describes the running binary.
type versionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit,omitempty"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go"`
	Trademarks int    `json:"builtin_trademarks"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, commit and built-in dictionary size",
	Long: `Print the tmcheck release, the commit it was built from, the Go
toolchain and how many trademarks the embedded dictionary carries.

A binary built outside a tagged release reports "dev". A commit built
from a tree with uncommitted changes is marked "-dirty".

Examples:
  tmcheck v0.2.0 (48cae1d)
  built with go1.24.2, 44 built-in trademarks`,
	Run: func(cmd *cobra.Command, args []string) {
		info := currentVersion()
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), info)
			return
		}
		writeVersion(cmd.OutOrStdout(), info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func currentVersion() versionInfo {
	info := versionInfo{
		Version:    Version,
		Commit:     Commit,
		GoVersion:  runtime.Version(),
		Trademarks: dictionary.Default().Len(),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit, info.Modified = vcsInfo()
	}
	return info
}

func writeVersion(w io.Writer, info versionInfo) {
	line := "tmcheck " + info.Version
	if info.Commit != "" {
		c := shortCommit(info.Commit)
		if info.Modified {
			c += "-dirty"
		}
		line += " (" + c + ")"
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "built with %s, %d built-in trademarks\n", info.GoVersion, info.Trademarks)
}

// vcsInfo reads the revision and dirty flag from Go's embedded build info.
func vcsInfo() (revision string, modified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return revision, modified
}

// shortCommit returns the first 7 characters of a commit hash.
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
