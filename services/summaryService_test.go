package services

import (
	"context"
	"errors"
	"testing"

	"aimentor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryService_Create(t *testing.T) {
	repo := newMemorySummaries()
	index := &fakeIndex{}
	tutorFake := &fakeTutor{summary: &models.TextSummary{
		Summary:   []string{"Paris is the capital of France."},
		Takeaways: []string{"Remember Paris"},
		Quiz:      []models.QuizItem{{Question: "Capital of France?", Answer: "Paris"}},
	}}
	svc := NewSummaryService(repo, tutorFake, index, testLogger)

	summary, err := svc.Create(context.Background(), "learner-1", &models.CreateSummaryRequest{
		Text:   "Paris is the capital of France.",
		Source: "geography",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Paris is the capital of France."}, summary.Summary)
	assert.Equal(t, []int{summary.ID}, index.indexed)
}

func TestSummaryService_IndexFailureDoesNotFailCreate(t *testing.T) {
	index := &fakeIndex{indexErr: errors.New("pinecone unavailable")}
	svc := NewSummaryService(newMemorySummaries(), &fakeTutor{summary: &models.TextSummary{}}, index, testLogger)

	summary, err := svc.Create(context.Background(), "l", &models.CreateSummaryRequest{Text: "text"})

	require.NoError(t, err)
	assert.NotZero(t, summary.ID)
}

func TestSummaryService_CreateRequiresText(t *testing.T) {
	svc := NewSummaryService(newMemorySummaries(), &fakeTutor{}, &fakeIndex{}, testLogger)

	_, err := svc.Create(context.Background(), "l", &models.CreateSummaryRequest{Text: "   "})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummaryService_SearchKeepsIndexOrder(t *testing.T) {
	repo := newMemorySummaries()
	ctx := context.Background()
	for _, source := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateSummary(ctx, &models.Summary{LearnerID: "l", Source: source}))
	}
	require.NoError(t, repo.CreateSummary(ctx, &models.Summary{LearnerID: "other", Source: "d"}))

	index := &fakeIndex{ids: []int{3, 4, 1, 99}}
	svc := NewSummaryService(repo, &fakeTutor{}, index, testLogger)

	results, err := svc.Search(ctx, "l", "anything", 0)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].Source)
	assert.Equal(t, "a", results[1].Source)
}

func TestSummaryService_SearchErrors(t *testing.T) {
	disabled := errors.New("disabled")
	svc := NewSummaryService(newMemorySummaries(), &fakeTutor{}, &fakeIndex{search: disabled}, testLogger)

	_, err := svc.Search(context.Background(), "l", "", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), "l", "query", 5)
	assert.ErrorIs(t, err, disabled)
}

func TestSummaryService_DeleteRemovesFromIndex(t *testing.T) {
	repo := newMemorySummaries()
	require.NoError(t, repo.CreateSummary(context.Background(), &models.Summary{LearnerID: "l"}))
	index := &fakeIndex{}
	svc := NewSummaryService(repo, &fakeTutor{}, index, testLogger)

	require.NoError(t, svc.Delete(context.Background(), "l", 1))
	assert.Equal(t, []int{1}, index.deleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), "l", 1), ErrNotFound)
}
