package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/aggregate"
	"github.com/scbrown/tmcheck/internal/model"
)

var checkCmd = &cobra.Command{
	Use:   "check <term>...",
	Short: "Check terms against known and registered trademarks",
	Long: `Check looks up each term in the local trademark dictionary and, when a
registry key is configured, the remote registry. Duplicate terms are
checked once. Each result has a status (conflict, warning or clear), a
severity and the trademark it matched, followed by an overall verdict.`,
	Example: `  tmcheck check nike
  tmcheck check "air jordan" disneyland pottery
  tmcheck check nike --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.matcher.Batch(cmd.Context(), args)
		if err != nil {
			return err
		}
		report := aggregate.Results(results, cfg.Details())

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, checkOutput{Results: results, Report: report})
		}
		writeResultsTable(w, results)
		fmt.Fprintln(w)
		writeVerdict(w, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkOutput is the JSON structure for check results.
type checkOutput struct {
	Results []model.MatchResult `json:"results"`
	Report  model.Report        `json:"report"`
}

// writeResultsTable writes one row per result.
func writeResultsTable(w io.Writer, results []model.MatchResult) {
	tbl := NewTable(w, "TERM", "STATUS", "SEVERITY", "TRADEMARK", "OWNER", "SOURCE")
	for _, r := range results {
		source := string(r.Source)
		if r.CachedFrom != "" {
			source += " (" + string(r.CachedFrom) + ")"
		}
		tbl.Row(r.Term, tbl.Status(r.Status), string(r.Severity), orDash(r.Trademark), orDash(truncate(r.Owner, 32)), source)
	}
	tbl.Flush()
}

// writeVerdict writes a report's status, message and details.
func writeVerdict(w io.Writer, report model.Report) {
	tbl := NewTable(w)
	fmt.Fprintf(w, "%s: %s\n", tbl.Risk(report.Status), report.Message)
	for _, d := range report.Details {
		line := fmt.Sprintf("  - %s (%s, %s similarity", d.Trademark, d.Status, d.Similarity)
		if d.Owner != "" {
			line += ", owner " + d.Owner
		}
		if d.RegistrationNumber != "" {
			line += ", reg. " + d.RegistrationNumber
		}
		fmt.Fprintln(w, line+")")
	}
}
