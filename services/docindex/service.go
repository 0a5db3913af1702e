package docindex

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"aimentor/models"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrIndexDisabled = errors.New("summary search is not configured")

const (
	namespace      = "aimentor-summaries"
	vectorIDPrefix = "summary-"
	previewLength  = 200
	embeddingModel = "text-embedding-3-small"
	dimension      = int32(1536)
)

type vectorStore interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DeleteVectorsById(ctx context.Context, ids []string) error
}

type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	store   vectorStore
	connect func(ctx context.Context) (vectorStore, error)
}

// Disabled returns an index that ignores writes and rejects searches.
func Disabled(logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{logger: logger}
}

func NewService(apiKey, openaiAPIKey, indexName string, logger *zap.SugaredLogger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infof("Initializing summary index %s", indexName)

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithEmbeddingModel(embeddingModel),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	s := &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
		logger:    logger,
	}
	s.connect = s.dial
	return s, nil
}

func (s *Service) Enabled() bool {
	return s.embedder != nil
}

// IndexSummary embeds the summary's key points and takeaways and upserts
// them under summary-<id>, replacing any earlier vector.
func (s *Service) IndexSummary(ctx context.Context, summary *models.Summary) error {
	if !s.Enabled() {
		return nil
	}

	text := summaryText(summary)
	if text == "" {
		s.logger.Infof("Summary %d has no content to index", summary.ID)
		return nil
	}

	store, err := s.conn(ctx)
	if err != nil {
		return err
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("failed to embed summary %d: %w", summary.ID, err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("failed to embed summary %d: no embedding returned", summary.ID)
	}

	metadata, err := structpb.NewStruct(map[string]any{
		"learner_id": summary.LearnerID,
		"summary_id": summary.ID,
		"source":     summary.Source,
		"preview":    preview(text),
	})
	if err != nil {
		return fmt.Errorf("failed to build metadata: %w", err)
	}

	values := vectors[0]
	if _, err := store.UpsertVectors(ctx, []*pinecone.Vector{{
		Id:       vectorID(summary.ID),
		Values:   &values,
		Metadata: metadata,
	}}); err != nil {
		return fmt.Errorf("failed to upsert summary %d: %w", summary.ID, err)
	}

	s.logger.Infof("Indexed summary %d for learner %s", summary.ID, summary.LearnerID)
	return nil
}

func (s *Service) DeleteSummary(ctx context.Context, id int) error {
	if !s.Enabled() {
		return nil
	}

	store, err := s.conn(ctx)
	if err != nil {
		return err
	}

	if err := store.DeleteVectorsById(ctx, []string{vectorID(id)}); err != nil {
		return fmt.Errorf("failed to delete summary %d from index: %w", id, err)
	}
	return nil
}

// SearchSummaries returns ids of the learner's summaries closest to query,
// best match first.
func (s *Service) SearchSummaries(ctx context.Context, learnerID, query string, limit int) ([]int, error) {
	if !s.Enabled() {
		return nil, ErrIndexDisabled
	}
	if limit <= 0 {
		limit = 5
	}

	store, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter, err := structpb.NewStruct(map[string]any{
		"learner_id": map[string]any{"$eq": learnerID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	result, err := store.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          embedding,
		TopK:            uint32(limit),
		MetadataFilter:  filter,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}

	s.logger.Infof("Summary search for learner %s matched %d vectors", learnerID, len(result.Matches))

	ids := lo.FilterMap(result.Matches, func(match *pinecone.ScoredVector, _ int) (int, bool) {
		if match == nil || match.Vector == nil {
			return 0, false
		}
		return summaryIDOf(match.Vector)
	})
	return lo.Uniq(ids), nil
}

// EnsureIndex creates the serverless index if it does not exist and waits
// until it is ready.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if s.client == nil {
		return ErrIndexDisabled
	}

	indexes, err := s.client.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == s.indexName {
			s.logger.Infof("Index %s already exists", s.indexName)
			return nil
		}
	}

	s.logger.Infof("Creating Pinecone index: %s", s.indexName)
	dim := dimension
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               s.indexName,
		Dimension:          &dim,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"project": "aimentor"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := s.client.DescribeIndex(ctx, s.indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status != nil && idx.Status.Ready {
			s.logger.Infof("Index %s is ready", s.indexName)
			return nil
		}
		s.logger.Infof("Waiting for index %s to be ready...", s.indexName)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}
}

func (s *Service) conn(ctx context.Context) (vectorStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return s.store, nil
	}

	store, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	s.store = store
	return store, nil
}

func (s *Service) dial(ctx context.Context) (vectorStore, error) {
	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}
	return idxConn, nil
}

func summaryText(summary *models.Summary) string {
	parts := lo.Filter(append(append([]string{}, summary.Summary...), summary.Takeaways...), func(p string, _ int) bool {
		return strings.TrimSpace(p) != ""
	})
	return strings.Join(parts, "\n")
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

func vectorID(id int) string {
	return vectorIDPrefix + strconv.Itoa(id)
}

func summaryIDOf(v *pinecone.Vector) (int, bool) {
	if v.Metadata != nil {
		if id, ok := v.Metadata.AsMap()["summary_id"].(float64); ok {
			return int(id), true
		}
	}
	id, err := strconv.Atoi(strings.TrimPrefix(v.Id, vectorIDPrefix))
	if err != nil {
		return 0, false
	}
	return id, true
}
