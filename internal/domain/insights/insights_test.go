package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func result(at time.Time, compliance, failed int, issues ...scans.Issue) scans.AnalysisResult {
	return scans.AnalysisResult{ID: scans.ResultID(at), Date: at, Compliance: compliance, FailedCount: failed, Issues: issues}
}

func failedIssue(title string, count *int) scans.Issue {
	return scans.Issue{Title: title, Status: scans.StatusFailed, Count: count}
}

func intPtr(n int) *int { return &n }

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarize(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 3, 1), 78, 2),
		result(day(2024, 3, 2), 67, 3),
		result(day(2024, 3, 3), 100, 0),
	}
	s := Summarize(history)
	assert.Equal(t, 3, s.TotalDocuments)
	assert.Equal(t, 82, s.AvgCompliance) // 81.67
	assert.Equal(t, 1.7, s.AvgIssuesPerDoc)
	assert.Equal(t, 5, s.TotalIssues)
}

func TestRootCausesWeighting(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 1, 1), 50, 2,
			failedIssue("Title Format Check", nil),
			failedIssue("Duplicate Headings Check", intPtr(4)),
		),
		result(day(2024, 1, 2), 50, 1,
			failedIssue("Duplicate Headings Check", nil),
			scans.Issue{Title: "Language Check (English Only)", Status: scans.StatusPassed},
		),
	}

	got := RootCauses(history)
	require.Len(t, got, 2)
	assert.Equal(t, RootCause{Title: "Duplicate Headings Check", Total: 5}, got[0])
	assert.Equal(t, RootCause{Title: "Title Format Check", Total: 1}, got[1])
}

func TestRootCausesStableTies(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 1, 1), 0, 3, failedIssue("B", nil), failedIssue("A", nil), failedIssue("C", nil)),
	}
	got := RootCauses(history)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
	assert.Equal(t, "C", got[2].Title)

	assert.Len(t, TopN(got, 2), 2)
	assert.Len(t, TopN(got, 0), 3)
	assert.Len(t, TopN(got, 10), 3)
	assert.NotNil(t, RootCauses(nil))
}

func TestTrendMonthly(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 3, 15), 0, 3),
		result(day(2024, 3, 1), 0, 2),
	}
	got := Trend(history, Monthly)
	require.Len(t, got, 1)
	assert.Equal(t, TrendPoint{Bucket: "2024-03", Total: 5, Documents: 2}, got[0])
}

func TestTrendSparseAndSorted(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 11, 2), 0, 1),
		result(day(2023, 12, 30), 0, 4),
		result(day(2024, 2, 1), 0, 2),
	}

	months := Trend(history, Monthly)
	assert.Equal(t, []string{"2023-12", "2024-02", "2024-11"}, buckets(months))

	quarters := Trend(history, Quarterly)
	assert.Equal(t, []string{"2023-Q4", "2024-Q1", "2024-Q4"}, buckets(quarters))

	years := Trend(history, Yearly)
	assert.Equal(t, []string{"2023", "2024"}, buckets(years))
	assert.Equal(t, 3, years[1].Total)
}

func TestBucketKeyWeekly(t *testing.T) {
	// Monday 2024-01-01 is ISO week 1
	assert.Equal(t, "2024-W01", BucketKey(day(2024, 1, 1), Weekly))
	assert.Equal(t, "2024-W01", BucketKey(day(2024, 1, 7), Weekly))
	assert.Equal(t, "2024-W02", BucketKey(day(2024, 1, 8), Weekly))
	// 2024-12-30 belongs to ISO week 1 of 2025
	assert.Equal(t, "2025-W01", BucketKey(day(2024, 12, 30), Weekly))
	assert.Equal(t, "2020-W53", BucketKey(day(2021, 1, 1), Weekly))
}

func TestParseGroupBy(t *testing.T) {
	g, err := ParseGroupBy("")
	require.NoError(t, err)
	assert.Equal(t, Monthly, g)

	g, err = ParseGroupBy("quarterly")
	require.NoError(t, err)
	assert.Equal(t, Quarterly, g)

	_, err = ParseGroupBy("daily")
	assert.Error(t, err)
}

func TestFilterCascade(t *testing.T) {
	f := Filter{}.WithYear(2024).WithQuarter(2).WithMonth(5).WithWeek(20)
	assert.Equal(t, Filter{Year: 2024, Quarter: 2, Month: 5, Week: 20}, f)

	assert.Equal(t, Filter{Year: 2023}, f.WithYear(2023))
	assert.Equal(t, Filter{Year: 2024, Quarter: 3}, f.WithQuarter(3))
	assert.Equal(t, Filter{Year: 2024, Quarter: 2, Month: 4}, f.WithMonth(4))
}

func TestFilterOptions(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2023, 7, 4), 0, 0),
		result(day(2024, 1, 10), 0, 0),
		result(day(2024, 2, 20), 0, 0),
		result(day(2024, 5, 6), 0, 0),
	}

	opts := FilterOptions(history, Filter{})
	assert.Equal(t, []int{2023, 2024}, opts.Years)
	assert.Empty(t, opts.Quarters)
	assert.Empty(t, opts.Months)
	assert.Empty(t, opts.Weeks)

	opts = FilterOptions(history, Filter{Year: 2024})
	assert.Equal(t, []int{1, 2}, opts.Quarters)
	assert.Equal(t, []int{1, 2, 5}, opts.Months)
	assert.Equal(t, []int{2, 8, 19}, opts.Weeks)

	opts = FilterOptions(history, Filter{Year: 2024, Quarter: 1})
	assert.Equal(t, []int{1, 2}, opts.Months)
	assert.Equal(t, []int{2, 8}, opts.Weeks)

	opts = FilterOptions(history, Filter{Year: 2024, Quarter: 1, Month: 2})
	assert.Equal(t, []int{8}, opts.Weeks)
}

func TestApply(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 5, 6), 0, 1),
		result(day(2024, 2, 20), 0, 2),
		result(day(2023, 7, 4), 0, 3),
	}
	assert.Len(t, Apply(history, Filter{Year: 2024}), 2)
	assert.Len(t, Apply(history, Filter{Year: 2024, Quarter: 2}), 1)
	assert.Len(t, Apply(history, Filter{}), 3)
	// a week without a year is ignored
	assert.Len(t, Apply(history, Filter{Week: 1}), 3)
}

func TestComplianceBand(t *testing.T) {
	assert.Equal(t, BandHigh, ComplianceBand(80))
	assert.Equal(t, BandMedium, ComplianceBand(79))
	assert.Equal(t, BandMedium, ComplianceBand(50))
	assert.Equal(t, BandLow, ComplianceBand(49))
}

func TestRecent(t *testing.T) {
	var history []scans.AnalysisResult
	for i := 1; i <= 7; i++ {
		history = append(history, result(day(2024, 1, i), 90, 1))
	}
	got := Recent(history, 0)
	require.Len(t, got, DefaultRecentLimit)
	assert.Equal(t, BandHigh, got[0].Band)
	assert.Equal(t, "2024-01-01T12:00:00Z", got[0].Date)
	assert.Len(t, Recent(history[:2], 5), 2)
}

func buckets(points []TrendPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Bucket
	}
	return out
}

func TestWeekFilterAtYearBoundary(t *testing.T) {
	history := []scans.AnalysisResult{
		result(day(2024, 12, 30), 0, 1), // ISO 2025-W01
		result(day(2024, 1, 2), 0, 2),   // ISO 2024-W01
		result(day(2021, 1, 1), 0, 4),   // ISO 2020-W53
	}

	f := Filter{}.WithYear(2024).WithWeek(1)
	got := Apply(history, f)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].FailedCount)
	assert.Equal(t, []TrendPoint{{Bucket: "2024-W01", Total: 2, Documents: 1}}, Trend(got, Weekly))

	opts := FilterOptions(history, Filter{Year: 2024})
	assert.Equal(t, []int{1}, opts.Weeks)
	opts = FilterOptions(history, Filter{Year: 2024, Month: 12})
	assert.Empty(t, opts.Weeks)

	// the calendar year still has to match too
	assert.Empty(t, Apply(history, Filter{Year: 2020, Week: 53}))
	assert.Empty(t, Apply(history, Filter{Year: 2021, Week: 53}))
}
