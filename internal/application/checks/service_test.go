package checks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/repository"
	"github.com/arishali16742/SOW/internal/repository/mocks"
)

func TestListFallsBackToDefaults(t *testing.T) {
	for _, loadErr := range []error{repository.ErrNotFound, repository.ErrCorrupt} {
		repo := new(mocks.CheckRepository)
		repo.On("Load", mock.Anything).Return(nil, loadErr)

		list, err := NewService(repo, nil).List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 9)
		assert.Equal(t, "Title Format Check", list[1].Title)
	}
}

func TestListPropagatesStoreFailure(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewService(repo, nil).List(context.Background())
	assert.Error(t, err)
}

func TestListReturnsStoredEmptyList(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return([]domain.Check{}, nil)

	list, err := NewService(repo, nil).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestAddAppends(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return(nil, repository.ErrNotFound)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(list []domain.Check) bool {
		return len(list) == 10 && list[9].Title == "Signature Block" && strings.HasPrefix(list[9].ID, "check-")
	})).Return(nil)

	c, err := NewService(repo, nil).Add(context.Background(), " Signature Block ", "Both parties sign.")
	require.NoError(t, err)
	assert.Equal(t, "Signature Block", c.Title)
	repo.AssertExpectations(t)
}

func TestAddRejectsBlank(t *testing.T) {
	repo := new(mocks.CheckRepository)
	_, err := NewService(repo, nil).Add(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateKeepsIDAndPosition(t *testing.T) {
	stored := []domain.Check{{ID: "a", Title: "A", Prompt: "a"}, {ID: "b", Title: "B", Prompt: "b"}}
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return(stored, nil)
	repo.On("Save", mock.Anything, []domain.Check{
		{ID: "a", Title: "A", Prompt: "a"},
		{ID: "b", Title: "B2", Prompt: "b2"},
	}).Return(nil)

	c, err := NewService(repo, nil).Update(context.Background(), "b", "B2", "b2")
	require.NoError(t, err)
	assert.Equal(t, "b", c.ID)
	repo.AssertExpectations(t)
	// the repository's slice was not modified in place
	assert.Equal(t, "B", stored[1].Title)
}

func TestUpdateUnknown(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return([]domain.Check{{ID: "a", Title: "A", Prompt: "a"}}, nil)

	_, err := NewService(repo, nil).Update(context.Background(), "zzz", "T", "P")
	assert.ErrorIs(t, err, domain.ErrCheckNotFound)
}

func TestRemove(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Load", mock.Anything).Return(nil, repository.ErrNotFound)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(list []domain.Check) bool {
		return len(list) == 8 && domain.IndexOf(list, "check4") == -1
	})).Return(nil).Once()

	svc := NewService(repo, nil)
	require.NoError(t, svc.Remove(context.Background(), "check4"))
	require.NoError(t, svc.Remove(context.Background(), "missing"))
	repo.AssertExpectations(t)
}

func TestReset(t *testing.T) {
	repo := new(mocks.CheckRepository)
	repo.On("Save", mock.Anything, domain.Defaults()).Return(nil)

	list, err := NewService(repo, nil).Reset(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 9)
}

func TestSaveValidates(t *testing.T) {
	repo := new(mocks.CheckRepository)
	err := NewService(repo, nil).Save(context.Background(), []domain.Check{{Title: "x", Prompt: "y"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
