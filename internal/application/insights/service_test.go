package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

type staticHistory struct {
	list []scans.AnalysisResult
	err  error
}

func (h staticHistory) History(context.Context) ([]scans.AnalysisResult, error) { return h.list, h.err }

func sample() []scans.AnalysisResult {
	failed := func(title string) scans.Issue { return scans.Issue{Title: title, Status: scans.StatusFailed} }
	return []scans.AnalysisResult{
		{ID: "c", Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Compliance: 67, FailedCount: 3,
			Issues: []scans.Issue{failed("Title Format Check"), failed("Fees Breakdown Table Validation"), failed("Title Format Check")}},
		{ID: "b", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Compliance: 78, FailedCount: 2,
			Issues: []scans.Issue{failed("Title Format Check"), failed("Role Breakdown Table Check")}},
		{ID: "a", Date: time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), Compliance: 100},
	}
}

func TestDashboard(t *testing.T) {
	d, err := NewService(staticHistory{list: sample()}, 2, 1).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.Summary.TotalDocuments)
	assert.Equal(t, 82, d.Summary.AvgCompliance)
	assert.Len(t, d.Recent, 2)
	assert.Equal(t, "c", d.Recent[0].ID)
	assert.Equal(t, []domain.RootCause{{Title: "Title Format Check", Total: 3}}, d.RootCauses)
}

func TestDashboardEmpty(t *testing.T) {
	d, err := NewService(staticHistory{}, 0, 0).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{}, d.Summary)
	assert.Empty(t, d.Recent)
	assert.Empty(t, d.RootCauses)
}

func TestTrendWithFilter(t *testing.T) {
	svc := NewService(staticHistory{list: sample()}, 0, 0)

	tr, err := svc.Trend(context.Background(), domain.Monthly, domain.Filter{Year: 2024})
	require.NoError(t, err)
	require.Len(t, tr.Points, 1)
	assert.Equal(t, domain.TrendPoint{Bucket: "2024-03", Total: 5, Documents: 2}, tr.Points[0])
	assert.Equal(t, []int{2023, 2024}, tr.Options.Years)
	assert.Equal(t, []int{1}, tr.Options.Quarters)

	tr, err = svc.Trend(context.Background(), domain.Yearly, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, tr.Points, 2)
}

func TestRootCausesFiltered(t *testing.T) {
	svc := NewService(staticHistory{list: sample()}, 0, 0)
	got, err := svc.RootCauses(context.Background(), domain.Filter{Year: 2023}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.RootCauses(context.Background(), domain.Filter{}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSourceError(t *testing.T) {
	svc := NewService(staticHistory{err: errors.New("db down")}, 0, 0)
	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
	_, err = svc.Filters(context.Background(), domain.Filter{})
	assert.Error(t, err)
}
