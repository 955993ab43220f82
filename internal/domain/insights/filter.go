package insights

import (
	"sort"
	"time"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

// Filter narrows history by calendar period. Zero fields are unset.
// Year, quarter and month are calendar based. Week is the ISO week number and
// only matches days whose ISO year is also Year.
type Filter struct {
	Year    int `json:"year,omitempty"`
	Quarter int `json:"quarter,omitempty"`
	Month   int `json:"month,omitempty"`
	Week    int `json:"week,omitempty"`
}

// WithYear selects a year and clears every lower level.
func (f Filter) WithYear(y int) Filter { return Filter{Year: y} }

// WithQuarter selects a quarter and clears month and week.
func (f Filter) WithQuarter(q int) Filter { return Filter{Year: f.Year, Quarter: q} }

// WithMonth selects a month and clears week.
func (f Filter) WithMonth(m int) Filter { return Filter{Year: f.Year, Quarter: f.Quarter, Month: m} }

// WithWeek selects a week.
func (f Filter) WithWeek(w int) Filter {
	f.Week = w
	return f
}

// Normalize drops lower levels whose parent is unset, and a month outside the selected quarter.
func (f Filter) Normalize() Filter {
	if f.Year == 0 {
		return Filter{}
	}
	if f.Quarter != 0 && f.Month != 0 && (f.Month-1)/3+1 != f.Quarter {
		f.Month, f.Week = 0, 0
	}
	return f
}

// Match reports whether t falls inside the filter.
func (f Filter) Match(t time.Time) bool {
	f = f.Normalize()
	t = t.UTC()
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	if f.Quarter != 0 && quarter(t) != f.Quarter {
		return false
	}
	if f.Month != 0 && int(t.Month()) != f.Month {
		return false
	}
	if f.Week != 0 {
		if y, w := t.ISOWeek(); y != f.Year || w != f.Week {
			return false
		}
	}
	return true
}

// Apply keeps the results matching the filter, preserving order.
func Apply(history []scans.AnalysisResult, f Filter) []scans.AnalysisResult {
	out := make([]scans.AnalysisResult, 0, len(history))
	for _, r := range history {
		if f.Match(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// Options lists the values each filter level can take given the levels above it.
// A level stays empty until its parent year is chosen.
type Options struct {
	Years    []int `json:"years"`
	Quarters []int `json:"quarters"`
	Months   []int `json:"months"`
	Weeks    []int `json:"weeks"`
}

// FilterOptions derives the available values present in history for f.
func FilterOptions(history []scans.AnalysisResult, f Filter) Options {
	f = f.Normalize()
	years, quarters, months, weeks := set{}, set{}, set{}, set{}

	for _, r := range history {
		t := r.Date.UTC()
		years.add(t.Year())
		if f.Year == 0 || t.Year() != f.Year {
			continue
		}
		quarters.add(quarter(t))
		if f.Quarter != 0 && quarter(t) != f.Quarter {
			continue
		}
		months.add(int(t.Month()))
		if f.Month != 0 && int(t.Month()) != f.Month {
			continue
		}
		// days at the year edge that belong to a neighbouring ISO year are not offered
		if y, w := t.ISOWeek(); y == f.Year {
			weeks.add(w)
		}
	}
	return Options{
		Years:    years.sorted(),
		Quarters: quarters.sorted(),
		Months:   months.sorted(),
		Weeks:    weeks.sorted(),
	}
}

type set map[int]struct{}

func (s set) add(v int) { s[v] = struct{}{} }

func (s set) sorted() []int {
	out := make([]int, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
