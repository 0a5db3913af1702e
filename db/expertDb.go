package db

import (
	"context"
	"database/sql"
	"fmt"

	"aimentor/models"
)

type ExpertRepository interface {
	CreateExpert(ctx context.Context, expert *models.Expert) error
	GetExpert(ctx context.Context, learnerID string, id int) (*models.Expert, error)
	ListExperts(ctx context.Context, learnerID string) ([]*models.Expert, error)
	UpdateExpert(ctx context.Context, expert *models.Expert) error
	DeleteExpert(ctx context.Context, learnerID string, id int) error
}

type PostgresExpertRepository struct {
	db *sql.DB
}

func NewPostgresExpertRepository(conn *sql.DB) *PostgresExpertRepository {
	return &PostgresExpertRepository{db: conn}
}

const expertColumns = `id, learner_id, name, description, tone, prompt, is_preset, created_at, updated_at`

func (r *PostgresExpertRepository) CreateExpert(ctx context.Context, expert *models.Expert) error {
	query := `
		INSERT INTO aimentor.experts (learner_id, name, description, tone, prompt, is_preset)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		expert.LearnerID, expert.Name, expert.Description, expert.Tone, expert.Prompt, expert.IsPreset)
	if err := row.Scan(&expert.ID, &expert.CreatedAt, &expert.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create expert: %w", err)
	}

	return nil
}

func (r *PostgresExpertRepository) GetExpert(ctx context.Context, learnerID string, id int) (*models.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM aimentor.experts WHERE id = $1 AND learner_id = $2`

	expert, err := scanExpert(r.db.QueryRowContext(ctx, query, id, learnerID))
	if err != nil {
		return nil, notFoundIfNoRows(err, "expert", id)
	}

	return expert, nil
}

func (r *PostgresExpertRepository) ListExperts(ctx context.Context, learnerID string) ([]*models.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM aimentor.experts WHERE learner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query experts: %w", err)
	}
	defer rows.Close()

	experts := make([]*models.Expert, 0)
	for rows.Next() {
		expert, err := scanExpert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expert: %w", err)
		}
		experts = append(experts, expert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over experts: %w", err)
	}

	return experts, nil
}

// UpdateExpert only touches custom experts; a preset id reports ErrNotFound.
func (r *PostgresExpertRepository) UpdateExpert(ctx context.Context, expert *models.Expert) error {
	query := `
		UPDATE aimentor.experts
		SET name = $1, description = $2, tone = $3, prompt = $4, updated_at = NOW()
		WHERE id = $5 AND learner_id = $6 AND is_preset = FALSE
		RETURNING updated_at`

	row := r.db.QueryRowContext(ctx, query,
		expert.Name, expert.Description, expert.Tone, expert.Prompt, expert.ID, expert.LearnerID)
	if err := row.Scan(&expert.UpdatedAt); err != nil {
		return notFoundIfNoRows(err, "expert", expert.ID)
	}

	return nil
}

func (r *PostgresExpertRepository) DeleteExpert(ctx context.Context, learnerID string, id int) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM aimentor.experts WHERE id = $1 AND learner_id = $2 AND is_preset = FALSE", id, learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete expert: %w", err)
	}

	return expectAffected(res, "expert", id)
}

func scanExpert(row rowScanner) (*models.Expert, error) {
	expert := &models.Expert{}
	err := row.Scan(&expert.ID, &expert.LearnerID, &expert.Name, &expert.Description, &expert.Tone,
		&expert.Prompt, &expert.IsPreset, &expert.CreatedAt, &expert.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return expert, nil
}
