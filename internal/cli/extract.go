package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/extract"
)

var extractHTML bool

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "List the candidate terms scan would check",
	Long: `Extract prints the candidate terms found in text: lowercase words of at
least min_word_length characters that are not stopwords, plus any known
multi-word phrases (such as "air jordan") that occur in the text. Nothing
is looked up.`,
	Example: `  echo "Vintage Nike Air Jordan sneakers" | tmcheck extract
  tmcheck extract --html description.html --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}
		text := string(data)
		if extractHTML {
			text = extract.StripHTML(text)
		}
		ext := extract.New()
		ext.MinWordLength = cfg.WordLength()
		terms := ext.Extract(text)
		if terms == nil {
			terms = []string{}
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, terms)
		}
		for _, t := range terms {
			fmt.Fprintln(w, t)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractHTML, "html", false, "input is HTML markup")
	rootCmd.AddCommand(extractCmd)
}
