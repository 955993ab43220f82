package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

// GroupBy selects the trend bucket size.
type GroupBy string

const (
	Weekly    GroupBy = "weekly"
	Monthly   GroupBy = "monthly"
	Quarterly GroupBy = "quarterly"
	Yearly    GroupBy = "yearly"
)

// ParseGroupBy accepts the four bucket names; empty means monthly.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case "":
		return Monthly, nil
	case Weekly, Monthly, Quarterly, Yearly:
		return g, nil
	default:
		return "", fmt.Errorf("unknown group %q", s)
	}
}

// TrendPoint is the failed-issue total of one time bucket.
type TrendPoint struct {
	Bucket    string `json:"bucket"`
	Total     int    `json:"total"`
	Documents int    `json:"documents"`
}

// BucketKey formats t for the given grouping. Keys sort chronologically as strings.
// Weekly keys use the ISO week and ISO week-numbering year.
func BucketKey(t time.Time, g GroupBy) string {
	t = t.UTC()
	switch g {
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter(t))
	case Yearly:
		return fmt.Sprintf("%04d", t.Year())
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// Trend sums failedCount per bucket. Only buckets with at least one document appear.
func Trend(history []scans.AnalysisResult, g GroupBy) []TrendPoint {
	byKey := map[string]*TrendPoint{}
	for _, r := range history {
		k := BucketKey(r.Date, g)
		p, ok := byKey[k]
		if !ok {
			p = &TrendPoint{Bucket: k}
			byKey[k] = p
		}
		p.Total += r.FailedCount
		p.Documents++
	}

	out := make([]TrendPoint, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

func quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
