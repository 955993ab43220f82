package scans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arishali16742/SOW/internal/application"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/document"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	domain "github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/repository"
)

// CheckLister supplies the active check list.
type CheckLister interface {
	List(ctx context.Context) ([]checks.Check, error)
}

// Analyzer runs model evaluations.
type Analyzer interface {
	RunChecklist(ctx context.Context, documentText string, list []checks.Check) ([]domain.Issue, error)
	RunCustomPrompt(ctx context.Context, documentText, question string) (domain.CustomFinding, error)
}

// Service implements use-cases untuk scan dokumen. It is safe for concurrent
// use; history appends are serialized.
type Service struct {
	Results   domain.HistoryRepository
	Checks    CheckLister
	Analyzer  Analyzer
	Converter document.Converter
	// Documents is optional; when set the original upload is archived.
	Documents domain.DocumentStore
	// Failures is optional; ingestion failures are recorded there.
	Failures     scanerrors.Repository
	Clock        application.Clock
	Logger       *slog.Logger
	HistoryLimit int

	mu sync.Mutex
}

//
// ==== USE CASES ====
//

// Scan converts the upload, runs every registered check and stores the result.
// Nothing is persisted when any step fails.
func (s *Service) Scan(ctx context.Context, req domain.ScanRequest) (domain.ScanOutcome, error) {
	log := s.logger().With("file", req.FileName)

	html, err := s.ingest(ctx, req)
	if err != nil {
		return domain.ScanOutcome{}, err
	}

	list, err := s.Checks.List(ctx)
	if err != nil {
		return domain.ScanOutcome{}, err
	}

	issues, err := s.Analyzer.RunChecklist(ctx, html, list)
	if err != nil {
		return domain.ScanOutcome{}, fmt.Errorf("scanning %s: %w", req.FileName, err)
	}

	result := domain.NewResult(s.now(), req.FileName, issues)
	if len(req.Data) > 0 {
		result.DocumentURL = s.archive(ctx, req)
	}

	// a scan without any issue is reported but not kept
	if len(issues) == 0 {
		log.Info("scan returned no issues, history untouched")
		return domain.ScanOutcome{Result: result, HTML: html}, nil
	}

	if err := s.appendHistory(ctx, result); err != nil {
		return domain.ScanOutcome{}, err
	}
	log.Info("scan stored", "id", result.ID, "failed", result.FailedCount, "total", result.TotalChecks, "compliance", result.Compliance)
	return domain.ScanOutcome{Result: result, HTML: html, Persisted: true}, nil
}

// AddCustomCheck asks a custom question and puts the answer at the top of current.
// The returned list is new; current and stored history are not modified.
func (s *Service) AddCustomCheck(ctx context.Context, documentText, prompt string, current []domain.Issue) ([]domain.Issue, domain.Issue, error) {
	f, err := s.Analyzer.RunCustomPrompt(ctx, documentText, prompt)
	if err != nil {
		return nil, domain.Issue{}, err
	}
	is := domain.Issue{
		ID:           domain.CustomIssueID(s.now()),
		Title:        strings.TrimSpace(prompt),
		Status:       f.Status,
		Description:  f.Description,
		RelevantText: f.RelevantText,
	}
	return domain.PrependIssue(current, is), is, nil
}

// History returns the stored results, most recent first. Corrupt data reads as empty.
func (s *Service) History(ctx context.Context) ([]domain.AnalysisResult, error) {
	list, err := s.Results.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return []domain.AnalysisResult{}, nil
	case errors.Is(err, repository.ErrCorrupt):
		s.logger().Warn("stored history is corrupt, treating as empty", "error", err)
		return []domain.AnalysisResult{}, nil
	case err != nil:
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if list == nil {
		list = []domain.AnalysisResult{}
	}
	return list, nil
}

// Get ambil 1 hasil scan by id
func (s *Service) Get(ctx context.Context, id string) (domain.AnalysisResult, error) {
	list, err := s.History(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	r, ok := domain.Find(list, id)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("scan %s: %w", id, repository.ErrNotFound)
	}
	return r, nil
}

// Page returns one page of history.
func (s *Service) Page(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	list, err := s.History(ctx)
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	return domain.Paginate(list, page, pageSize), nil
}

func (s *Service) ingest(ctx context.Context, req domain.ScanRequest) (string, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return "", fmt.Errorf("%w: file name is required", repository.ErrInvalidInput)
	}
	html := req.HTML
	if len(req.Data) > 0 {
		var err error
		html, err = s.Converter.Convert(ctx, req.FileName, req.Data)
		if err != nil {
			s.recordFailure(ctx, req.FileName, err)
			return "", err
		}
	}
	if strings.TrimSpace(document.Normalize(html)) == "" {
		return "", document.ErrEmpty
	}
	return html, nil
}

// archive uploads the original file; failures are logged and the scan continues.
func (s *Service) archive(ctx context.Context, req domain.ScanRequest) string {
	if s.Documents == nil {
		return ""
	}
	key := fmt.Sprintf("documents/%s/%s", uuid.NewString(), filepath.Base(req.FileName))
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(req.FileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := s.Documents.Upload(ctx, key, contentType, req.Data)
	if err != nil {
		s.logger().Warn("archiving document failed", "file", req.FileName, "error", err)
		return ""
	}
	return url
}

func (s *Service) appendHistory(ctx context.Context, r domain.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.History(ctx)
	if err != nil {
		return err
	}
	if err := s.Results.Save(ctx, domain.Prepend(list, r, s.HistoryLimit)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, fileName string, err error) {
	s.logger().Warn("document ingestion failed", "file", fileName, "error", err)
	if s.Failures == nil {
		return
	}
	if serr := s.Failures.Save(context.WithoutCancel(ctx), scanerrors.FromError("ingest", fileName, err, s.now())); serr != nil {
		s.logger().Error("saving failure entry", "error", serr)
	}
}

func (s *Service) now() time.Time { return s.clock().Now() }

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
