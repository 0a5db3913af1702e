package db

import (
	"context"
	"database/sql"
	"fmt"

	"aimentor/models"

	"github.com/lib/pq"
)

type SummaryRepository interface {
	CreateSummary(ctx context.Context, summary *models.Summary) error
	GetSummary(ctx context.Context, learnerID string, id int) (*models.Summary, error)
	GetSummariesByIDs(ctx context.Context, learnerID string, ids []int) ([]*models.Summary, error)
	ListSummaries(ctx context.Context, learnerID string) ([]*models.Summary, error)
	ListAllSummaries(ctx context.Context) ([]*models.Summary, error)
	UpdateSummary(ctx context.Context, summary *models.Summary) error
	DeleteSummary(ctx context.Context, learnerID string, id int) error
}

type PostgresSummaryRepository struct {
	db *sql.DB
}

func NewPostgresSummaryRepository(conn *sql.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: conn}
}

const summaryColumns = `id, learner_id, source, text, summary, takeaways, quiz, created_at, updated_at`

func (r *PostgresSummaryRepository) CreateSummary(ctx context.Context, summary *models.Summary) error {
	points, takeaways, quiz, err := marshalSummary(summary)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO aimentor.summaries (learner_id, source, text, summary, takeaways, quiz)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, summary.LearnerID, summary.Source, summary.Text, points, takeaways, quiz)
	if err := row.Scan(&summary.ID, &summary.CreatedAt, &summary.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}

	return nil
}

func (r *PostgresSummaryRepository) GetSummary(ctx context.Context, learnerID string, id int) (*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM aimentor.summaries WHERE id = $1 AND learner_id = $2`

	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, id, learnerID))
	if err != nil {
		return nil, notFoundIfNoRows(err, "summary", id)
	}

	return summary, nil
}

func (r *PostgresSummaryRepository) GetSummariesByIDs(ctx context.Context, learnerID string, ids []int) ([]*models.Summary, error) {
	if len(ids) == 0 {
		return []*models.Summary{}, nil
	}

	query := `SELECT ` + summaryColumns + ` FROM aimentor.summaries WHERE learner_id = $1 AND id = ANY($2)`
	return r.query(ctx, query, learnerID, pq.Array(ids))
}

func (r *PostgresSummaryRepository) ListSummaries(ctx context.Context, learnerID string) ([]*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM aimentor.summaries WHERE learner_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, learnerID)
}

// ListAllSummaries returns every learner's summaries, oldest first.
func (r *PostgresSummaryRepository) ListAllSummaries(ctx context.Context) ([]*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM aimentor.summaries ORDER BY id ASC`
	return r.query(ctx, query)
}

func (r *PostgresSummaryRepository) UpdateSummary(ctx context.Context, summary *models.Summary) error {
	points, takeaways, quiz, err := marshalSummary(summary)
	if err != nil {
		return err
	}

	query := `
		UPDATE aimentor.summaries
		SET source = $1, text = $2, summary = $3, takeaways = $4, quiz = $5, updated_at = NOW()
		WHERE id = $6 AND learner_id = $7
		RETURNING updated_at`

	row := r.db.QueryRowContext(ctx, query,
		summary.Source, summary.Text, points, takeaways, quiz, summary.ID, summary.LearnerID)
	if err := row.Scan(&summary.UpdatedAt); err != nil {
		return notFoundIfNoRows(err, "summary", summary.ID)
	}

	return nil
}

func (r *PostgresSummaryRepository) DeleteSummary(ctx context.Context, learnerID string, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM aimentor.summaries WHERE id = $1 AND learner_id = $2", id, learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	return expectAffected(res, "summary", id)
}

func (r *PostgresSummaryRepository) query(ctx context.Context, query string, args ...any) ([]*models.Summary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*models.Summary, 0)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over summaries: %w", err)
	}

	return summaries, nil
}

func marshalSummary(summary *models.Summary) (points, takeaways, quiz []byte, err error) {
	if points, err = toJSONB(summary.Summary); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal summary points: %w", err)
	}
	if takeaways, err = toJSONB(summary.Takeaways); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal takeaways: %w", err)
	}
	if quiz, err = toJSONB(summary.Quiz); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal quiz: %w", err)
	}
	return points, takeaways, quiz, nil
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	summary := &models.Summary{}
	var pointsJSON, takeawaysJSON, quizJSON []byte

	err := row.Scan(&summary.ID, &summary.LearnerID, &summary.Source, &summary.Text,
		&pointsJSON, &takeawaysJSON, &quizJSON, &summary.CreatedAt, &summary.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := fromJSONB(pointsJSON, &summary.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary points: %w", err)
	}
	if err := fromJSONB(takeawaysJSON, &summary.Takeaways); err != nil {
		return nil, fmt.Errorf("failed to unmarshal takeaways: %w", err)
	}
	if err := fromJSONB(quizJSON, &summary.Quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}

	return summary, nil
}
