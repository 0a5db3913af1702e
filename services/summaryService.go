package services

import (
	"context"
	"fmt"
	"strings"

	"aimentor/db"
	"aimentor/models"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultSearchLimit = 5

type SummaryService struct {
	repo   db.SummaryRepository
	tutor  Tutor
	index  SummaryIndex
	logger *zap.SugaredLogger
}

func NewSummaryService(repo db.SummaryRepository, t Tutor, index SummaryIndex, logger *zap.SugaredLogger) *SummaryService {
	return &SummaryService{repo: repo, tutor: t, index: index, logger: logger}
}

func (s *SummaryService) Create(ctx context.Context, learnerID string, req *models.CreateSummaryRequest) (*models.Summary, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	s.logger.Infof("Starting summary creation for learner %s (%d chars)", learnerID, len(text))

	result, err := s.tutor.SummarizeText(ctx, text)
	if err != nil {
		s.logger.Errorf("Summarization failed: %v", err)
		return nil, err
	}

	summary := &models.Summary{
		LearnerID: learnerID,
		Source:    strings.TrimSpace(req.Source),
		Text:      text,
		Summary:   result.Summary,
		Takeaways: result.Takeaways,
		Quiz:      result.Quiz,
	}

	if err := s.repo.CreateSummary(ctx, summary); err != nil {
		s.logger.Errorf("Failed to create summary: %v", err)
		return nil, fmt.Errorf("failed to create summary: %w", err)
	}

	if err := s.index.IndexSummary(ctx, summary); err != nil {
		s.logger.Warnf("Failed to index summary %d: %v", summary.ID, err)
	}

	s.logger.Infof("Successfully created summary %d", summary.ID)
	return summary, nil
}

func (s *SummaryService) List(ctx context.Context, learnerID string) ([]*models.Summary, error) {
	return s.repo.ListSummaries(ctx, learnerID)
}

func (s *SummaryService) Get(ctx context.Context, learnerID string, id int) (*models.Summary, error) {
	return s.repo.GetSummary(ctx, learnerID, id)
}

func (s *SummaryService) Update(ctx context.Context, learnerID string, id int, req *models.UpdateSummaryRequest) (*models.Summary, error) {
	summary, err := s.repo.GetSummary(ctx, learnerID, id)
	if err != nil {
		return nil, err
	}

	if req.Source != nil {
		summary.Source = strings.TrimSpace(*req.Source)
	}

	if err := s.repo.UpdateSummary(ctx, summary); err != nil {
		s.logger.Errorf("Failed to update summary %d: %v", id, err)
		return nil, err
	}

	if err := s.index.IndexSummary(ctx, summary); err != nil {
		s.logger.Warnf("Failed to reindex summary %d: %v", id, err)
	}
	return summary, nil
}

func (s *SummaryService) Delete(ctx context.Context, learnerID string, id int) error {
	if err := s.repo.DeleteSummary(ctx, learnerID, id); err != nil {
		s.logger.Errorf("Failed to delete summary %d: %v", id, err)
		return err
	}

	if err := s.index.DeleteSummary(ctx, id); err != nil {
		s.logger.Warnf("Failed to remove summary %d from index: %v", id, err)
	}

	s.logger.Infof("Successfully deleted summary %d", id)
	return nil
}

// Search returns the learner's summaries semantically closest to query, best
// match first.
func (s *SummaryService) Search(ctx context.Context, learnerID, query string, limit int) ([]*models.Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	ids, err := s.index.SearchSummaries(ctx, learnerID, query, limit)
	if err != nil {
		s.logger.Errorf("Summary search failed: %v", err)
		return nil, err
	}

	found, err := s.repo.GetSummariesByIDs(ctx, learnerID, ids)
	if err != nil {
		return nil, err
	}

	byID := lo.KeyBy(found, func(summary *models.Summary) int { return summary.ID })
	ordered := lo.FilterMap(ids, func(id int, _ int) (*models.Summary, bool) {
		summary, ok := byID[id]
		return summary, ok
	})

	s.logger.Infof("Summary search returned %d results", len(ordered))
	return ordered, nil
}
