package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/model"
)

var (
	listingTitle string
	listingTags  []string
	listingMax   int
)

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Check a marketplace listing's title and tags",
	Long: `Listing checks every word of the title and every tag, then reduces the
results to a single verdict: "risk" when a registered trademark matches
closely, "warning" for weaker or pending matches, and "clear" otherwise.
At most --max matching trademarks are listed (default max_details).`,
	Example: `  tmcheck listing --title "Vintage Nike Air sneakers"
  tmcheck listing --title "Mouse ears headband" --tag disney --tag costume
  tmcheck listing --title "Handmade mug" --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listingTitle == "" && len(listingTags) == 0 {
			return fmt.Errorf("nothing to check: pass --title and/or --tag")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		limit := listingMax
		if limit <= 0 {
			limit = cfg.Details()
		}
		report, err := s.matcher.CheckListing(cmd.Context(), model.Listing{Title: listingTitle, Tags: listingTags}, limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, report)
		}
		writeVerdict(w, report)
		return nil
	},
}

func init() {
	listingCmd.Flags().StringVar(&listingTitle, "title", "", "listing title")
	listingCmd.Flags().StringArrayVar(&listingTags, "tag", nil, "listing tag (repeatable)")
	listingCmd.Flags().IntVar(&listingMax, "max", 0, "maximum trademarks to list (default max_details)")
	rootCmd.AddCommand(listingCmd)
}
