package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/middleware"
)

func newHistoryCmd() *cobra.Command {
	var (
		page int
		size int
	)

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List stored scans, or show one scan in full",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				if err := middleware.ValidateScanID(args[0]); err != nil {
					return err
				}
				r, err := app.Scans.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("scan %s: %w", args[0], err)
				}
				if jsonOutput {
					return writeJSON(w, r)
				}
				printResult(w, r, true)
				return nil
			}

			res, err := app.Scans.Page(ctx, middleware.ValidatePage(page), middleware.ValidateLimit(size))
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(w, res)
			}
			if res.Total == 0 {
				fmt.Fprintln(w, "No scans yet")
				return nil
			}
			printHistory(w, res)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 10, "scans per page")
	return cmd
}
