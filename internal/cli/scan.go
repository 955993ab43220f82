package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/bootstrap"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/infra/ingest"
	"github.com/arishali16742/SOW/internal/middleware"
)

func newScanCmd() *cobra.Command {
	var (
		htmlOut string
		failed  bool
	)

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Audit a document against the registered checks",
		Long: `Convert the document, run every registered check through the model and
store the result in history. Scans where the model reports no issues are shown
but not stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			name, data, err := readDocument(args[0])
			if err != nil {
				return err
			}

			out, err := app.Scans.Scan(ctx, scans.ScanRequest{FileName: name, Data: data})
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if htmlOut != "" {
				if err := os.WriteFile(htmlOut, []byte(out.HTML), 0o644); err != nil {
					return fmt.Errorf("failed to write html: %w", err)
				}
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			r := out.Result
			if failed {
				r.Issues = onlyFailed(r.Issues)
			}
			printResult(cmd.OutOrStdout(), r, out.Persisted)
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlOut, "html", "", "also write the converted document to this file")
	cmd.Flags().BoolVar(&failed, "failed", false, "only list failed checks")
	return cmd
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [file] [question]",
		Short: "Ask an ad-hoc compliance question about a document",
		Long:  `Run a one-off question against the document. The answer is printed and never stored.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidatePrompt(args[1]); err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := loadApp(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			html, err := convertDocument(ctx, app, args[0])
			if err != nil {
				return err
			}

			_, is, err := app.Scans.AddCustomCheck(ctx, html, args[1], nil)
			if err != nil {
				return fmt.Errorf("question failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), is)
			}
			printIssue(cmd.OutOrStdout(), 1, is)
			return nil
		},
	}
	return cmd
}

func newSuggestCmd() *cobra.Command {
	var (
		description string
		text        string
	)

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Ask the model for rewrites that would fix a failed check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if description == "" {
				return fmt.Errorf("--description is required")
			}
			ctx := cmd.Context()
			app, err := loadApp(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			html, err := convertDocument(ctx, app, args[0])
			if err != nil {
				return err
			}

			list, err := app.AI.SuggestImprovements(ctx, html, description, text)
			if err != nil {
				return fmt.Errorf("suggestions failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			w := cmd.OutOrStdout()
			if len(list) == 0 {
				colorDim.Fprintln(w, "No suggestions")
				return nil
			}
			for i, s := range list {
				colorInfo.Fprintf(w, "%d. ", i+1)
				fmt.Fprintln(w, s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "description of the failed check")
	cmd.Flags().StringVar(&text, "text", "", "the passage the check flagged")
	return cmd
}

// readDocument loads a local file and checks its extension.
func readDocument(path string) (string, []byte, error) {
	name := filepath.Base(path)
	if err := middleware.ValidateFileName(name, ingest.Extensions); err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return name, data, nil
}

func convertDocument(ctx context.Context, app *bootstrap.App, path string) (string, error) {
	name, data, err := readDocument(path)
	if err != nil {
		return "", err
	}
	html, err := app.Scans.Converter.Convert(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", name, err)
	}
	return html, nil
}

func onlyFailed(list []scans.Issue) []scans.Issue {
	out := make([]scans.Issue, 0, len(list))
	for _, is := range list {
		if is.Failed() {
			out = append(out, is)
		}
	}
	return out
}
