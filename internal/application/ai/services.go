// Package ai orchestrates the model calls: it renders prompts, validates what
// comes back and puts checklist answers back into check order.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arishali16742/SOW/internal/application"
	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/document"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/infra/ai/prompt"
)

const DefaultTimeout = 120 * time.Second

type Service struct {
	client   ai.Client
	failures scanerrors.Repository
	clock    application.Clock
	logger   *slog.Logger
	timeout  time.Duration
	group    singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithFailureLog records every failed model call.
func WithFailureLog(repo scanerrors.Repository) Option {
	return func(s *Service) { s.failures = repo }
}

// WithTimeout bounds each model call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock overrides the clock used for failure timestamps.
func WithClock(c application.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(client ai.Client, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		client:  client,
		clock:   application.SystemClock{},
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunChecklist evaluates every check against the document in a single model call.
// The result follows the order of list; checks the model skipped are missing.
func (s *Service) RunChecklist(ctx context.Context, documentText string, list []checks.Check) ([]scans.Issue, error) {
	text, err := plainText(documentText)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []scans.Issue{}, nil
	}

	p := prompt.Checklist(text, list)
	raw, err := s.generate(ctx, p)
	if err != nil {
		return nil, err
	}
	issues, err := scans.ParseChecklist(p.Name, raw, list)
	if err != nil {
		s.fail(ctx, p.Name, err)
		return nil, err
	}
	s.logger.Info("checklist evaluated", "checks", len(list), "issues", len(issues))
	return issues, nil
}

// RunLegacyChecklist runs the nine default rules without consulting the registry.
func (s *Service) RunLegacyChecklist(ctx context.Context, documentText string) ([]scans.Issue, error) {
	text, err := plainText(documentText)
	if err != nil {
		return nil, err
	}
	p := prompt.LegacyChecklist(text)
	raw, err := s.generate(ctx, p)
	if err != nil {
		return nil, err
	}
	issues, err := scans.ParseChecklist(p.Name, raw, checks.Defaults())
	if err != nil {
		s.fail(ctx, p.Name, err)
		return nil, err
	}
	return issues, nil
}

// RunCustomPrompt asks a single free-form question about the document.
func (s *Service) RunCustomPrompt(ctx context.Context, documentText, question string) (scans.CustomFinding, error) {
	if strings.TrimSpace(question) == "" {
		return scans.CustomFinding{}, fmt.Errorf("custom prompt: %w", checks.ErrInvalidInput)
	}
	text, err := plainText(documentText)
	if err != nil {
		return scans.CustomFinding{}, err
	}
	p := prompt.Custom(text, question)
	raw, err := s.generate(ctx, p)
	if err != nil {
		return scans.CustomFinding{}, err
	}
	f, err := scans.ParseCustom(raw)
	if err != nil {
		s.fail(ctx, p.Name, err)
		return scans.CustomFinding{}, err
	}
	return f, nil
}

// SuggestImprovements returns rewrite ideas for one failed issue. No ideas is a valid answer.
func (s *Service) SuggestImprovements(ctx context.Context, documentText, issueDescription, relevantText string) ([]string, error) {
	text, err := plainText(documentText)
	if err != nil {
		return nil, err
	}
	p := prompt.Suggestion(text, issueDescription, relevantText)
	raw, err := s.generate(ctx, p)
	if err != nil {
		return nil, err
	}
	out, err := scans.ParseSuggestions(raw)
	if err != nil {
		s.fail(ctx, p.Name, err)
		return nil, err
	}
	return out, nil
}

// generate sends p once. Identical prompts in flight at the same time share one
// call. The shared call is detached from every caller's cancellation and only
// bounded by the service timeout; a caller whose own ctx ends stops waiting
// without failing the others.
func (s *Service) generate(ctx context.Context, p ai.Prompt) (string, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key(p), func() (any, error) {
		return s.call(detached, p)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w: %w", p.Name, ai.ErrModelUnavailable, ctx.Err())
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("model call shared", "prompt", p.Name)
		}
		if res.Err != nil {
			return "", fmt.Errorf("%s: %w", p.Name, res.Err)
		}
		return res.Val.(string), nil
	}
}

func (s *Service) call(ctx context.Context, p ai.Prompt) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := s.clock.Now()
	raw, err := s.client.Generate(ctx, p)
	if err != nil {
		if !errors.Is(err, ai.ErrModelUnavailable) && !errors.Is(err, ai.ErrModelOutputInvalid) {
			err = fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
		}
		s.fail(ctx, p.Name, err)
		return "", err
	}
	s.logger.Debug("model call finished", "prompt", p.Name, "duration", s.clock.Now().Sub(start))
	return raw, nil
}

func (s *Service) fail(ctx context.Context, action string, err error) {
	s.logger.Warn("model call failed", "prompt", action, "kind", scanerrors.Classify(err), "error", err)
	if s.failures == nil {
		return
	}
	entry := scanerrors.FromError(action, "", err, s.clock.Now())
	if serr := s.failures.Save(context.WithoutCancel(ctx), entry); serr != nil {
		s.logger.Error("saving failure entry", "error", serr)
	}
}

func plainText(documentText string) (string, error) {
	text := document.Normalize(documentText)
	if strings.TrimSpace(text) == "" {
		return "", document.ErrEmpty
	}
	return text, nil
}

func key(p ai.Prompt) string {
	h := sha256.New()
	io.WriteString(h, p.System)
	h.Write([]byte{0})
	io.WriteString(h, p.User)
	return p.Name + ":" + hex.EncodeToString(h.Sum(nil))
}
