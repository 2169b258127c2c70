package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/analyze"
	"github.com/scbrown/tmcheck/internal/dictionary"
	"github.com/scbrown/tmcheck/internal/model"
)

var (
	similarKnown     string
	similarThreshold float64
	similarTopN      int
)

// similarCmd finds known trademarks similar to a given term.
var similarCmd = &cobra.Command{
	Use:   "similar <term>",
	Short: "Find known trademarks similar to a term",
	Long: `Similar ranks dictionary trademarks by string similarity to the given
term (edit distance with a bonus for shared prefixes and suffixes). An
exact dictionary entry is reported first. Candidates default to the
configured dictionary but can be overridden with --known.`,
	Example: `  tmcheck similar nikee
  tmcheck similar adiddas --threshold 0.3 --top 3
  tmcheck similar lego --known "lego,legoland,duplo"
  tmcheck similar disnee --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := args[0]
		w := cmd.OutOrStdout()

		dict, err := dictionary.Load(cfg.DictionaryPath)
		if err != nil {
			return err
		}

		known := dict.Keys()
		if similarKnown != "" {
			known = strings.Split(similarKnown, ",")
			for i := range known {
				known[i] = strings.TrimSpace(known[i])
			}
		}

		threshold := similarThreshold
		if threshold == 0 {
			threshold = analyze.DefaultThreshold
		}
		out := similarOutput{
			Query:       term,
			Suggestions: analyze.SuggestN(term, known, similarTopN, threshold),
		}
		if e, ok := dict.Lookup(term); ok {
			out.Exact = &e
		}

		if jsonOutput {
			return printJSON(w, out)
		}
		writeSimilarTable(w, out)
		return nil
	},
}

func init() {
	similarCmd.Flags().StringVar(&similarKnown, "known", "", "comma-separated list of candidate trademarks")
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", 0, "minimum similarity score (default 0.5)")
	similarCmd.Flags().IntVar(&similarTopN, "top", analyze.DefaultTopN, "maximum number of suggestions")
	rootCmd.AddCommand(similarCmd)
}

// similarOutput is the JSON structure for similar results.
type similarOutput struct {
	Query       string               `json:"query"`
	Exact       *model.Entry         `json:"exact,omitempty"`
	Suggestions []analyze.Suggestion `json:"suggestions,omitempty"`
}

// writeSimilarTable writes suggestions as an aligned text table.
func writeSimilarTable(w io.Writer, out similarOutput) {
	if out.Exact != nil {
		fmt.Fprintf(w, "Exact: %q is a known trademark of %s (%s severity)\n", out.Query, out.Exact.Owner, out.Exact.Severity)
	}
	if len(out.Suggestions) == 0 {
		fmt.Fprintf(w, "No similar trademarks found for %q\n", out.Query)
		return
	}
	tbl := NewTable(w, "RANK", "TRADEMARK", "SCORE", "SIMILARITY")
	for i, s := range out.Suggestions {
		tbl.Row(fmt.Sprintf("%d", i+1), s.Term, fmt.Sprintf("%.2f", s.Score), s.Similarity)
	}
	tbl.Flush()
}
