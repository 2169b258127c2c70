package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/scbrown/tmcheck/internal/model"
	"github.com/scbrown/tmcheck/internal/scan"
)

var (
	scanHTML bool
	scanURL  string
	scanName string
)

var scanCmd = &cobra.Command{
	Use:   "scan [file|-]",
	Short: "Scan page text and show where trademarks occur",
	Long: `Scan extracts candidate terms (words and known phrases) from text, checks
them all in one batch, and reports a page verdict plus the highlight
instructions the browser extension would draw: the matched text, its
byte range, CSS class and tooltip.

Input is read from the named file or stdin. A JSON object is read as a
page ({"url": ..., "elements": [{"name", "text", "html"}]}); anything
else is scanned as a single element. Use --html when the text is markup.`,
	Example: `  tmcheck scan description.txt
  curl -s https://shop.example/item/1 | tmcheck scan --html --url https://shop.example/item/1
  tmcheck scan page.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}
		page, err := parsePage(data)
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		scanner := scan.New(s.matcher,
			scan.WithExtractor(s.extractor),
			scan.WithMaxDetails(cfg.Details()),
			scan.WithLogger(logger),
			scan.WithMetrics(s.metrics),
		)
		report, err := scanner.Scan(cmd.Context(), page)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, report)
		}
		writeScanReport(w, report)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanHTML, "html", false, "input is HTML markup")
	scanCmd.Flags().StringVar(&scanURL, "url", "", "page URL to record in the report")
	scanCmd.Flags().StringVar(&scanName, "name", "text", "element name for plain input")
	rootCmd.AddCommand(scanCmd)
}

// parsePage reads data as a JSON page, or wraps it as a single element.
func parsePage(data []byte) (model.Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page model.Page
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return model.Page{}, fmt.Errorf("parse page: %w", err)
		}
		if scanURL != "" {
			page.URL = scanURL
		}
		return page, nil
	}
	return model.Page{
		URL:      scanURL,
		Elements: []model.Element{{Name: scanName, Text: string(data), HTML: scanHTML}},
	}, nil
}

func writeScanReport(w io.Writer, r model.PageReport) {
	tbl := NewTable(w)
	fmt.Fprintf(w, "Scan %s", r.ID)
	if r.URL != "" {
		fmt.Fprintf(w, " of %s", r.URL)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Terms checked: %s  Flagged: %s  Risk level: %s\n\n",
		humanize.Comma(int64(r.Summary.TermsChecked)),
		humanize.Comma(int64(r.Summary.Conflicts)),
		paint(statusStyle(r.Summary.RiskLevel), r.Summary.RiskLevel, tbl.Color()))
	writeVerdict(w, r.Report)

	var highlights int
	for _, el := range r.Elements {
		highlights += len(el.Highlights)
	}
	if highlights == 0 {
		return
	}
	fmt.Fprintln(w)
	hl := NewTable(w, "ELEMENT", "TEXT", "RANGE", "CLASS", "TOOLTIP")
	for _, el := range r.Elements {
		for _, h := range el.Highlights {
			hl.Row(el.Name, h.Original, fmt.Sprintf("%d-%d", h.Start, h.End), h.Class, h.Tooltip)
		}
	}
	hl.Flush()
}
