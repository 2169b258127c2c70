package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/dictionary"
	"github.com/scbrown/tmcheck/internal/model"
)

var dictionaryCategory string

var dictionaryCmd = &cobra.Command{
	Use:     "dictionary",
	Aliases: []string{"dict"},
	Short:   "List the known trademarks checked locally",
	Long: `Dictionary lists the trademarks checked before any registry lookup, in
match order. The built-in list can be replaced with a YAML file:

  trademarks:
    - term: "nike"
      owner: "Nike, Inc."
      severity: high
      category: clothing

and tmcheck config set dictionary_path /path/to/file.yaml`,
	Example: `  tmcheck dictionary
  tmcheck dictionary --category toys
  tmcheck dictionary --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := dictionary.Load(cfg.DictionaryPath)
		if err != nil {
			return err
		}
		entries := dict.Entries()
		if dictionaryCategory != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.Category == dictionaryCategory {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			if entries == nil {
				entries = []model.Entry{}
			}
			return printJSON(w, entries)
		}
		tbl := NewTable(w, "TERM", "OWNER", "SEVERITY", "CATEGORY")
		for _, e := range entries {
			tbl.Row(e.Term, e.Owner, string(e.Severity), orDash(e.Category))
		}
		if err := tbl.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d trademarks\n", len(entries))
		return nil
	},
}

func init() {
	dictionaryCmd.Flags().StringVar(&dictionaryCategory, "category", "", "only list entries in this category")
	rootCmd.AddCommand(dictionaryCmd)
}
