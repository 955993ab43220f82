package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/middleware"
)

func newHighlightCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "highlight [file] [scan-id] [issue-id]",
		Short: "Locate the evidence of a stored issue in the document",
		Long: `Find the passages a stored issue points at. Prints each match with its byte
offsets; --out writes the document HTML with the matches marked.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidateScanID(args[1]); err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := loadApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			r, err := app.Scans.Get(ctx, args[1])
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[1], err)
			}
			is, ok := findIssue(r.Issues, args[2])
			if !ok {
				return fmt.Errorf("issue %s not found in scan %s", args[2], args[1])
			}

			html, err := convertDocument(ctx, app, args[0])
			if err != nil {
				return err
			}

			spans := app.Reconciler.Spans(html, is)
			if out != "" {
				if err := os.WriteFile(out, []byte(app.Reconciler.Highlight(html, is)), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, spans)
			}
			if len(spans) == 0 {
				colorWarn.Fprintln(w, "No evidence found in the document")
				return nil
			}
			for i, sp := range spans {
				fmt.Fprintf(w, "%2d. ", i+1)
				colorDim.Fprintf(w, "[%d:%d] ", sp.Start, sp.End)
				colorWarn.Fprintln(w, oneLine(sp.Text, 120))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the highlighted HTML to this file")
	return cmd
}

func findIssue(list []scans.Issue, id string) (scans.Issue, bool) {
	for _, is := range list {
		if is.ID == id {
			return is, true
		}
	}
	return scans.Issue{}, false
}
