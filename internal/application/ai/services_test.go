package ai

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/application"
	domainai "github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/document"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/repository/mocks"
)

const sowHTML = "<h1>SOW Acme - Portal</h1><h2>1. Overview</h2><p>Intro</p><h2>1. Overview</h2>"

func promptNamed(name string) any {
	return mock.MatchedBy(func(p domainai.Prompt) bool { return p.Name == name })
}

func TestRunChecklistDuplicateHeadings(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p domainai.Prompt) bool {
		// the model sees text without markup
		return p.Name == scans.PromptChecklist && !strings.Contains(p.User, "<h2>")
	})).Return(`{"issues":[{"id":"check1","title":"Duplicate Headings Check","status":"failed",
		"description":"Heading \"1. Overview\" appears twice.","relevantText":"1. Overview","count":2,
		"occurrences":["1. Overview","1. Overview"]}]}`, nil)

	svc := NewService(client, nil)
	issues, err := svc.RunChecklist(context.Background(), sowHTML, checks.Defaults()[:1])

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, scans.StatusFailed, issues[0].Status)
	assert.Len(t, issues[0].Occurrences, 2)
	require.NotNil(t, issues[0].Count)
	assert.Equal(t, 2, *issues[0].Count)
	client.AssertExpectations(t)
}

func TestRunChecklistFollowsInputOrder(t *testing.T) {
	list := []checks.Check{
		{ID: "b", Title: "B", Prompt: "b"},
		{ID: "a", Title: "A", Prompt: "a"},
		{ID: "c", Title: "C", Prompt: "c"},
	}
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, promptNamed(scans.PromptChecklist)).Return(`[
		{"id":"a","title":"A","status":"passed","description":"","relevantText":""},
		{"id":"c","title":"C","status":"failed","description":"","relevantText":""},
		{"id":"b","title":"B","status":"passed","description":"","relevantText":""}]`, nil)

	issues, err := NewService(client, nil).RunChecklist(context.Background(), sowHTML, list)
	require.NoError(t, err)

	var got []string
	for _, is := range issues {
		got = append(got, is.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestRunChecklistEmptyListSkipsModel(t *testing.T) {
	client := new(mocks.AIClient)
	issues, err := NewService(client, nil).RunChecklist(context.Background(), sowHTML, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRunChecklistEmptyDocument(t *testing.T) {
	client := new(mocks.AIClient)
	_, err := NewService(client, nil).RunChecklist(context.Background(), "<p> </p>", checks.Defaults())
	assert.ErrorIs(t, err, document.ErrEmpty)
}

func TestRunChecklistModelUnavailable(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
	failures := new(mocks.ScanErrorRepository)
	failures.On("Save", mock.Anything, mock.MatchedBy(func(e *scanerrors.ScanError) bool {
		return e.Kind == scanerrors.KindModelUnavailable && e.Action == scans.PromptChecklist
	})).Return(nil).Once()

	svc := NewService(client, nil, WithFailureLog(failures))
	_, err := svc.RunChecklist(context.Background(), sowHTML, checks.Defaults())

	assert.ErrorIs(t, err, domainai.ErrModelUnavailable)
	failures.AssertExpectations(t)
}

func TestRunChecklistInvalidOutputIsLogged(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, mock.Anything).Return("Sure! Here is the analysis.", nil)
	failures := new(mocks.ScanErrorRepository)
	failures.On("Save", mock.Anything, mock.MatchedBy(func(e *scanerrors.ScanError) bool {
		return e.Kind == scanerrors.KindModelOutputInvalid && e.RawOutput == "Sure! Here is the analysis."
	})).Return(nil).Once()

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(client, nil, WithFailureLog(failures), WithClock(application.FixedClock(at)))
	_, err := svc.RunChecklist(context.Background(), sowHTML, checks.Defaults())

	assert.ErrorIs(t, err, domainai.ErrModelOutputInvalid)
	failures.AssertExpectations(t)
}

type slowClient struct{}

func (slowClient) Generate(ctx context.Context, _ domainai.Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestTimeoutIsModelUnavailable(t *testing.T) {
	svc := NewService(slowClient{}, nil, WithTimeout(10*time.Millisecond))
	_, err := svc.SuggestImprovements(context.Background(), sowHTML, "d", "r")
	assert.ErrorIs(t, err, domainai.ErrModelUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunLegacyChecklist(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, promptNamed(scans.PromptLegacyChecklist)).Return(`[
		{"id":"check2","title":"x","status":"failed","description":"bad title","relevantText":"SOW Acme - Portal"},
		{"id":"check1","title":"x","status":"passed","description":"","relevantText":""}]`, nil)

	issues, err := NewService(client, nil).RunLegacyChecklist(context.Background(), sowHTML)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "check1", issues[0].ID)
	assert.Equal(t, "Title Format Check", issues[1].Title)
}

func TestRunCustomPrompt(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, promptNamed(scans.PromptCustom)).
		Return(`{"status":"failed","description":"The document is marked DRAFT.","relevantText":"DRAFT"}`, nil)

	f, err := NewService(client, nil).RunCustomPrompt(context.Background(), sowHTML, "Is there a DRAFT watermark?")
	require.NoError(t, err)
	assert.Equal(t, scans.StatusFailed, f.Status)
	assert.Equal(t, "DRAFT", f.RelevantText)

	_, err = NewService(client, nil).RunCustomPrompt(context.Background(), sowHTML, "  ")
	assert.ErrorIs(t, err, checks.ErrInvalidInput)
}

func TestSuggestImprovementsEmptyIsValid(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, promptNamed(scans.PromptSuggestion)).Return(`{"suggestedImprovements":[]}`, nil)

	out, err := NewService(client, nil).SuggestImprovements(context.Background(), sowHTML, "Title format", "SOW Acme - Portal")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestQuotaPassesThrough(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("Generate", mock.Anything, mock.Anything).Return("", domainai.ErrQuotaExceeded)

	_, err := NewService(client, nil).SuggestImprovements(context.Background(), sowHTML, "d", "r")
	assert.ErrorIs(t, err, domainai.ErrQuotaExceeded)
	assert.ErrorIs(t, err, domainai.ErrModelUnavailable)
}

// gatedClient blocks every call until release is closed and fails if the ctx
// it was handed has been cancelled by then.
type gatedClient struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (c *gatedClient) Generate(ctx context.Context, _ domainai.Prompt) (string, error) {
	if c.calls.Add(1) == 1 {
		close(c.started)
	}
	<-c.release
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return `{"issues":[{"id":"check1","title":"Duplicate Headings Check","status":"passed","description":"","relevantText":""}]}`, nil
}

func TestSharedCallSurvivesCancelledCaller(t *testing.T) {
	client := &gatedClient{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(client, nil, WithTimeout(5*time.Second))
	list := checks.Defaults()[:1]

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.RunChecklist(ctxA, sowHTML, list)
		errA <- err
	}()
	<-client.started

	type result struct {
		issues []scans.Issue
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		issues, err := svc.RunChecklist(context.Background(), sowHTML, list)
		resB <- result{issues, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	err := <-errA
	assert.ErrorIs(t, err, domainai.ErrModelUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(client.release)
	b := <-resB
	require.NoError(t, b.err)
	require.Len(t, b.issues, 1)
	assert.Equal(t, scans.StatusPassed, b.issues[0].Status)
	assert.Equal(t, int32(1), client.calls.Load())
}
