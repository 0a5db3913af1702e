package db

import (
	"context"
	"database/sql"
	"fmt"

	"aimentor/models"
)

type StatsRepository interface {
	GetStats(ctx context.Context, learnerID string) (*models.Stats, error)
}

type PostgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(conn *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: conn}
}

func (r *PostgresStatsRepository) GetStats(ctx context.Context, learnerID string) (*models.Stats, error) {
	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM aimentor.chats WHERE learner_id = $1),
			(SELECT COUNT(*) FROM aimentor.exams WHERE learner_id = $1),
			(SELECT COUNT(*) FROM aimentor.summaries WHERE learner_id = $1)`

	stats := &models.Stats{Timeline: []models.TimelinePoint{}}
	err := r.db.QueryRowContext(ctx, countsQuery, learnerID).Scan(&stats.Chats, &stats.Exams, &stats.Summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to count learner activity: %w", err)
	}

	timelineQuery := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM aimentor.chats
		WHERE learner_id = $1
		GROUP BY day
		ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, timelineQuery, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat timeline: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var point models.TimelinePoint
		if err := rows.Scan(&point.Date, &point.Count); err != nil {
			return nil, fmt.Errorf("failed to scan timeline point: %w", err)
		}
		stats.Timeline = append(stats.Timeline, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over timeline: %w", err)
	}

	return stats, nil
}
