package docindex

import (
	"context"
	"errors"
	"testing"

	"aimentor/models"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeEmbedder struct {
	texts []string
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts...)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	return []float32{0.3, 0.2, 0.1}, nil
}

type fakeStore struct {
	upserted []*pinecone.Vector
	deleted  []string
	query    *pinecone.QueryByVectorValuesRequest
	matches  []*pinecone.ScoredVector
}

func (f *fakeStore) UpsertVectors(_ context.Context, in []*pinecone.Vector) (uint32, error) {
	f.upserted = append(f.upserted, in...)
	return uint32(len(in)), nil
}

func (f *fakeStore) QueryByVectorValues(_ context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error) {
	f.query = in
	return &pinecone.QueryVectorsResponse{Matches: f.matches}, nil
}

func (f *fakeStore) DeleteVectorsById(_ context.Context, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func newTestService(store *fakeStore, embedder *fakeEmbedder) *Service {
	return &Service{
		embedder:  embedder,
		indexName: "test-index",
		logger:    zap.NewNop().Sugar(),
		connect:   func(context.Context) (vectorStore, error) { return store, nil },
	}
}

func TestIndexSummary(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	svc := newTestService(store, embedder)

	err := svc.IndexSummary(context.Background(), &models.Summary{
		ID:        12,
		LearnerID: "learner-1",
		Source:    "notes",
		Summary:   []string{"Paris is the capital of France."},
		Takeaways: []string{"", "Visit the Louvre"},
	})

	require.NoError(t, err)
	require.Len(t, store.upserted, 1)
	vector := store.upserted[0]
	assert.Equal(t, "summary-12", vector.Id)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, *vector.Values)

	metadata := vector.Metadata.AsMap()
	assert.Equal(t, "learner-1", metadata["learner_id"])
	assert.Equal(t, float64(12), metadata["summary_id"])
	assert.Equal(t, []string{"Paris is the capital of France.\nVisit the Louvre"}, embedder.texts)
}

func TestIndexSummary_EmptyContentSkipped(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{})

	require.NoError(t, svc.IndexSummary(context.Background(), &models.Summary{ID: 1}))
	assert.Empty(t, store.upserted)
}

func TestSearchSummaries(t *testing.T) {
	byMetadata, err := structpb.NewStruct(map[string]any{"summary_id": 4})
	require.NoError(t, err)

	store := &fakeStore{matches: []*pinecone.ScoredVector{
		{Vector: &pinecone.Vector{Id: "summary-4", Metadata: byMetadata}, Score: 0.9},
		{Vector: &pinecone.Vector{Id: "summary-9"}, Score: 0.8},
		{Vector: &pinecone.Vector{Id: "summary-4"}, Score: 0.7},
		{Vector: &pinecone.Vector{Id: "garbage"}, Score: 0.1},
		{Score: 0.1},
	}}
	svc := newTestService(store, &fakeEmbedder{})

	ids, err := svc.SearchSummaries(context.Background(), "learner-1", "french capital", 3)

	require.NoError(t, err)
	assert.Equal(t, []int{4, 9}, ids)
	assert.Equal(t, uint32(3), store.query.TopK)
	filter := store.query.MetadataFilter.AsMap()
	assert.Equal(t, map[string]any{"$eq": "learner-1"}, filter["learner_id"])
}

func TestDeleteSummary(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeEmbedder{})

	require.NoError(t, svc.DeleteSummary(context.Background(), 3))
	assert.Equal(t, []string{"summary-3"}, store.deleted)
}

func TestDisabled(t *testing.T) {
	svc := Disabled(nil)
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.IndexSummary(ctx, &models.Summary{ID: 1, Summary: []string{"x"}}))
	assert.NoError(t, svc.DeleteSummary(ctx, 1))

	_, err := svc.SearchSummaries(ctx, "l", "q", 5)
	assert.True(t, errors.Is(err, ErrIndexDisabled))
	assert.ErrorIs(t, svc.EnsureIndex(ctx), ErrIndexDisabled)
}

func TestConnectionRetriedAfterFailure(t *testing.T) {
	store := &fakeStore{}
	attempts := 0
	svc := newTestService(store, &fakeEmbedder{})
	svc.connect = func(context.Context) (vectorStore, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("index not ready")
		}
		return store, nil
	}

	assert.Error(t, svc.DeleteSummary(context.Background(), 1))
	assert.NoError(t, svc.DeleteSummary(context.Background(), 1))
	assert.NoError(t, svc.DeleteSummary(context.Background(), 2))
	assert.Equal(t, 2, attempts)
}

func TestPreview(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, preview(short))

	long := make([]rune, previewLength+10)
	for i := range long {
		long[i] = 'é'
	}
	got := []rune(preview(string(long)))
	assert.Len(t, got, previewLength+3)
}
