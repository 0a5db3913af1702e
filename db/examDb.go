package db

import (
	"context"
	"database/sql"
	"fmt"

	"aimentor/models"
)

type ExamRepository interface {
	CreateExam(ctx context.Context, exam *models.Exam) error
	GetExam(ctx context.Context, learnerID string, id int) (*models.Exam, error)
	ListExams(ctx context.Context, learnerID string) ([]*models.Exam, error)
	UpdateExam(ctx context.Context, exam *models.Exam) error
	DeleteExam(ctx context.Context, learnerID string, id int) error
}

type PostgresExamRepository struct {
	db *sql.DB
}

func NewPostgresExamRepository(conn *sql.DB) *PostgresExamRepository {
	return &PostgresExamRepository{db: conn}
}

const examColumns = `id, learner_id, topic, questions, answers, feedback, score, summary, created_at, updated_at`

type examJSON struct {
	questions []byte
	answers   []byte
	feedback  []byte
}

func marshalExam(exam *models.Exam) (*examJSON, error) {
	questions, err := toJSONB(exam.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	answers, err := toJSONB(exam.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	feedback, err := toJSONB(exam.Feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback: %w", err)
	}
	return &examJSON{questions: questions, answers: answers, feedback: feedback}, nil
}

func (r *PostgresExamRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	cols, err := marshalExam(exam)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO aimentor.exams (learner_id, topic, questions, answers, feedback, score, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		exam.LearnerID, exam.Topic, cols.questions, cols.answers, cols.feedback, nullableScore(exam.Score), exam.Summary)

	if err := row.Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}

	return nil
}

func (r *PostgresExamRepository) GetExam(ctx context.Context, learnerID string, id int) (*models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM aimentor.exams WHERE id = $1 AND learner_id = $2`

	exam, err := scanExam(r.db.QueryRowContext(ctx, query, id, learnerID))
	if err != nil {
		return nil, notFoundIfNoRows(err, "exam", id)
	}

	return exam, nil
}

func (r *PostgresExamRepository) ListExams(ctx context.Context, learnerID string) ([]*models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM aimentor.exams WHERE learner_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exams: %w", err)
	}
	defer rows.Close()

	exams := make([]*models.Exam, 0)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, exam)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over exams: %w", err)
	}

	return exams, nil
}

func (r *PostgresExamRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	cols, err := marshalExam(exam)
	if err != nil {
		return err
	}

	query := `
		UPDATE aimentor.exams
		SET topic = $1, questions = $2, answers = $3, feedback = $4, score = $5, summary = $6, updated_at = NOW()
		WHERE id = $7 AND learner_id = $8
		RETURNING updated_at`

	row := r.db.QueryRowContext(ctx, query,
		exam.Topic, cols.questions, cols.answers, cols.feedback, nullableScore(exam.Score), exam.Summary, exam.ID, exam.LearnerID)

	if err := row.Scan(&exam.UpdatedAt); err != nil {
		return notFoundIfNoRows(err, "exam", exam.ID)
	}

	return nil
}

func (r *PostgresExamRepository) DeleteExam(ctx context.Context, learnerID string, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM aimentor.exams WHERE id = $1 AND learner_id = $2", id, learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	return expectAffected(res, "exam", id)
}

func nullableScore(score *float64) sql.NullFloat64 {
	if score == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *score, Valid: true}
}

func scanExam(row rowScanner) (*models.Exam, error) {
	exam := &models.Exam{}
	var questionsJSON, answersJSON, feedbackJSON []byte
	var score sql.NullFloat64

	err := row.Scan(&exam.ID, &exam.LearnerID, &exam.Topic, &questionsJSON, &answersJSON,
		&feedbackJSON, &score, &exam.Summary, &exam.CreatedAt, &exam.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := fromJSONB(questionsJSON, &exam.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if err := fromJSONB(answersJSON, &exam.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if err := fromJSONB(feedbackJSON, &exam.Feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
	}
	if score.Valid {
		exam.Score = &score.Float64
	}

	return exam, nil
}
