package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/domain/insights"
)

func newStatsCmd() *cobra.Command {
	var (
		trend      bool
		rootCauses bool
		groupBy    string
		limit      int
		year       int
		quarter    int
		month      int
		week       int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report compliance over stored scans",
		Long: `Without flags prints the dashboard: summary, recent documents and top root causes.
--trend prints failed issues per period, --root-causes ranks failing checks.
Period filters cascade: --quarter, --month and --week need --year.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := buildFilter(year, quarter, month, week)
			if err != nil {
				return err
			}
			g, err := insights.ParseGroupBy(groupBy)
			if err != nil {
				return err
			}

			app, err := loadApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			switch {
			case trend:
				t, err := app.Insights.Trend(ctx, g, f)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(w, t)
				}
				printTrend(w, t)
			case rootCauses:
				list, err := app.Insights.RootCauses(ctx, f, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(w, list)
				}
				printRootCauses(w, list)
			default:
				d, err := app.Insights.Dashboard(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(w, d)
				}
				printDashboard(w, d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&trend, "trend", false, "show failed issues per period")
	cmd.Flags().BoolVar(&rootCauses, "root-causes", false, "rank the most frequently failing checks")
	cmd.Flags().StringVar(&groupBy, "group-by", "monthly", "trend period: weekly, monthly, quarterly or yearly")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of root causes (default from config)")
	cmd.Flags().IntVar(&year, "year", 0, "only scans from this year")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "only scans from this quarter (1-4)")
	cmd.Flags().IntVar(&month, "month", 0, "only scans from this month (1-12)")
	cmd.Flags().IntVar(&week, "week", 0, "only scans from this ISO week (1-53)")
	cmd.MarkFlagsMutuallyExclusive("trend", "root-causes")
	return cmd
}

// buildFilter applies the period flags top down so a lower level without its
// parent is rejected instead of silently ignored.
func buildFilter(year, quarter, month, week int) (insights.Filter, error) {
	var f insights.Filter
	if year == 0 {
		if quarter != 0 || month != 0 || week != 0 {
			return f, fmt.Errorf("--quarter, --month and --week require --year")
		}
		return f, nil
	}
	if quarter < 0 || quarter > 4 {
		return f, fmt.Errorf("--quarter must be between 1 and 4")
	}
	if month < 0 || month > 12 {
		return f, fmt.Errorf("--month must be between 1 and 12")
	}
	if week < 0 || week > 53 {
		return f, fmt.Errorf("--week must be between 1 and 53")
	}
	if quarter != 0 && month != 0 && (month-1)/3+1 != quarter {
		return f, fmt.Errorf("month %d is not in quarter %d", month, quarter)
	}

	f = f.WithYear(year)
	if quarter != 0 {
		f = f.WithQuarter(quarter)
	}
	if month != 0 {
		f = f.WithMonth(month)
	}
	if week != 0 {
		f = f.WithWeek(week)
	}
	return f.Normalize(), nil
}
