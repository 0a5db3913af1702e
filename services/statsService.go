package services

import (
	"context"

	"aimentor/db"
	"aimentor/models"

	"go.uber.org/zap"
)

type StatsService struct {
	repo   db.StatsRepository
	logger *zap.SugaredLogger
}

func NewStatsService(repo db.StatsRepository, logger *zap.SugaredLogger) *StatsService {
	return &StatsService{repo: repo, logger: logger}
}

func (s *StatsService) Get(ctx context.Context, learnerID string) (*models.Stats, error) {
	stats, err := s.repo.GetStats(ctx, learnerID)
	if err != nil {
		s.logger.Errorf("Failed to load stats for %s: %v", learnerID, err)
		return nil, err
	}
	return stats, nil
}
