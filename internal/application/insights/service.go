package insights

import (
	"context"

	domain "github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

// HistorySource yields the stored results, most recent first.
type HistorySource interface {
	History(ctx context.Context) ([]scans.AnalysisResult, error)
}

// Dashboard is everything the landing page shows.
type Dashboard struct {
	Summary    domain.Summary          `json:"summary"`
	Recent     []domain.RecentDocument `json:"recent"`
	RootCauses []domain.RootCause      `json:"rootCauses"`
}

// Trend is a grouped series together with the filter that produced it.
type Trend struct {
	GroupBy domain.GroupBy      `json:"groupBy"`
	Filter  domain.Filter       `json:"filter"`
	Points  []domain.TrendPoint `json:"points"`
	Options domain.Options      `json:"options"`
}

type Service struct {
	source         HistorySource
	recentLimit    int
	rootCauseLimit int
}

// NewService builds the reporting facade; limits <= 0 use the package defaults.
func NewService(source HistorySource, recentLimit, rootCauseLimit int) *Service {
	if recentLimit <= 0 {
		recentLimit = domain.DefaultRecentLimit
	}
	if rootCauseLimit <= 0 {
		rootCauseLimit = domain.DefaultRootCauseLimit
	}
	return &Service{source: source, recentLimit: recentLimit, rootCauseLimit: rootCauseLimit}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	history, err := s.source.History(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Summary:    domain.Summarize(history),
		Recent:     domain.Recent(history, s.recentLimit),
		RootCauses: domain.TopN(domain.RootCauses(history), s.rootCauseLimit),
	}, nil
}

// RootCauses ranks failing checks within the filter; limit <= 0 uses the configured top-N.
func (s *Service) RootCauses(ctx context.Context, f domain.Filter, limit int) ([]domain.RootCause, error) {
	history, err := s.source.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.rootCauseLimit
	}
	return domain.TopN(domain.RootCauses(domain.Apply(history, f)), limit), nil
}

func (s *Service) Trend(ctx context.Context, g domain.GroupBy, f domain.Filter) (Trend, error) {
	history, err := s.source.History(ctx)
	if err != nil {
		return Trend{}, err
	}
	f = f.Normalize()
	return Trend{
		GroupBy: g,
		Filter:  f,
		Points:  domain.Trend(domain.Apply(history, f), g),
		Options: domain.FilterOptions(history, f),
	}, nil
}

func (s *Service) Summary(ctx context.Context, f domain.Filter) (domain.Summary, error) {
	history, err := s.source.History(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(domain.Apply(history, f)), nil
}

func (s *Service) Filters(ctx context.Context, f domain.Filter) (domain.Options, error) {
	history, err := s.source.History(ctx)
	if err != nil {
		return domain.Options{}, err
	}
	return domain.FilterOptions(history, f), nil
}
