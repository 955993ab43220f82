package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

// CheckRepository is a mock for checks.Repository.
type CheckRepository struct {
	mock.Mock
}

func (m *CheckRepository) Load(ctx context.Context) ([]checks.Check, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]checks.Check); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CheckRepository) Save(ctx context.Context, list []checks.Check) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

// HistoryRepository is a mock for scans.HistoryRepository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Load(ctx context.Context) ([]scans.AnalysisResult, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]scans.AnalysisResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HistoryRepository) Save(ctx context.Context, history []scans.AnalysisResult) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// DocumentStore is a mock for scans.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

// ScanErrorRepository is a mock for scanerrors.Repository.
type ScanErrorRepository struct {
	mock.Mock
}

func (m *ScanErrorRepository) Save(ctx context.Context, e *scanerrors.ScanError) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *ScanErrorRepository) Latest(ctx context.Context, action string, limit int) ([]*scanerrors.ScanError, error) {
	args := m.Called(ctx, action, limit)
	if list, ok := args.Get(0).([]*scanerrors.ScanError); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AIClient is a mock for ai.Client.
type AIClient struct {
	mock.Mock
}

func (m *AIClient) Generate(ctx context.Context, p ai.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

// Converter is a mock for document.Converter.
type Converter struct {
	mock.Mock
}

func (m *Converter) Convert(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}
