package checks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	domain "github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/repository"
)

// Service is the check registry. Mutations are serialized within the process;
// the store itself is last-writer-wins.
type Service struct {
	repo   domain.Repository
	logger *slog.Logger
	mu     sync.Mutex
}

func NewService(repo domain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// List returns the stored checks, or the nine defaults when nothing usable is stored.
func (s *Service) List(ctx context.Context) ([]domain.Check, error) {
	list, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.Defaults(), nil
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.Warn("stored checks are corrupt, using defaults", "error", err)
		return domain.Defaults(), nil
	case err != nil:
		return nil, fmt.Errorf("loading checks: %w", err)
	}
	if list == nil {
		list = []domain.Check{}
	}
	return domain.Clone(list), nil
}

// Save replaces the whole list.
func (s *Service) Save(ctx context.Context, list []domain.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

// Add appends a new check with a fresh time-ordered id.
func (s *Service) Add(ctx context.Context, title, prompt string) (domain.Check, error) {
	c := domain.Check{Title: strings.TrimSpace(title), Prompt: strings.TrimSpace(prompt)}
	if err := c.Validate(); err != nil {
		return domain.Check{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Check{}, fmt.Errorf("generating check id: %w", err)
	}
	c.ID = "check-" + id.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.List(ctx)
	if err != nil {
		return domain.Check{}, err
	}
	if err := s.save(ctx, append(list, c)); err != nil {
		return domain.Check{}, err
	}
	s.logger.Info("check added", "id", c.ID, "title", c.Title)
	return c, nil
}

// Remove deletes the check with id; an unknown id is a no-op.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	i := domain.IndexOf(list, id)
	if i < 0 {
		return nil
	}
	list = append(list[:i], list[i+1:]...)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	s.logger.Info("check removed", "id", id)
	return nil
}

// Update replaces title and prompt in place, keeping the id and position.
func (s *Service) Update(ctx context.Context, id, title, prompt string) (domain.Check, error) {
	c := domain.Check{ID: id, Title: strings.TrimSpace(title), Prompt: strings.TrimSpace(prompt)}
	if err := c.Validate(); err != nil {
		return domain.Check{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.List(ctx)
	if err != nil {
		return domain.Check{}, err
	}
	i := domain.IndexOf(list, id)
	if i < 0 {
		return domain.Check{}, fmt.Errorf("%w: %s", domain.ErrCheckNotFound, id)
	}
	list[i] = c
	if err := s.save(ctx, list); err != nil {
		return domain.Check{}, err
	}
	return c, nil
}

// Reset stores the nine defaults again.
func (s *Service) Reset(ctx context.Context) ([]domain.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := domain.Defaults()
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return domain.Clone(list), nil
}

func (s *Service) save(ctx context.Context, list []domain.Check) error {
	for _, c := range list {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: check id is required", domain.ErrInvalidInput)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if list == nil {
		list = []domain.Check{}
	}
	if err := s.repo.Save(ctx, domain.Clone(list)); err != nil {
		return fmt.Errorf("saving checks: %w", err)
	}
	return nil
}
