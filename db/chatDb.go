package db

import (
	"context"
	"database/sql"
	"fmt"

	"aimentor/models"
)

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChat(ctx context.Context, learnerID string, id int) (*models.Chat, error)
	ListChats(ctx context.Context, learnerID string) ([]*models.Chat, error)
	UpdateChat(ctx context.Context, chat *models.Chat) error
	DeleteChat(ctx context.Context, learnerID string, id int) error
}

type PostgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(conn *sql.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: conn}
}

const chatColumns = `id, learner_id, session_id, title, source, context, summary, messages, created_at, updated_at`

func (r *PostgresChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	messagesJSON, err := toJSONB(chat.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `
		INSERT INTO aimentor.chats (learner_id, session_id, title, source, context, summary, messages)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		chat.LearnerID, chat.SessionID, chat.Title, chat.Source, chat.Context, chat.Summary, messagesJSON)

	if err := row.Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	return nil
}

func (r *PostgresChatRepository) GetChat(ctx context.Context, learnerID string, id int) (*models.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM aimentor.chats WHERE id = $1 AND learner_id = $2`

	chat, err := scanChat(r.db.QueryRowContext(ctx, query, id, learnerID))
	if err != nil {
		return nil, notFoundIfNoRows(err, "chat", id)
	}

	return chat, nil
}

func (r *PostgresChatRepository) ListChats(ctx context.Context, learnerID string) ([]*models.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM aimentor.chats WHERE learner_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := make([]*models.Chat, 0)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over chats: %w", err)
	}

	return chats, nil
}

func (r *PostgresChatRepository) UpdateChat(ctx context.Context, chat *models.Chat) error {
	messagesJSON, err := toJSONB(chat.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `
		UPDATE aimentor.chats
		SET title = $1, source = $2, context = $3, summary = $4, messages = $5, updated_at = NOW()
		WHERE id = $6 AND learner_id = $7
		RETURNING updated_at`

	row := r.db.QueryRowContext(ctx, query,
		chat.Title, chat.Source, chat.Context, chat.Summary, messagesJSON, chat.ID, chat.LearnerID)

	if err := row.Scan(&chat.UpdatedAt); err != nil {
		return notFoundIfNoRows(err, "chat", chat.ID)
	}

	return nil
}

func (r *PostgresChatRepository) DeleteChat(ctx context.Context, learnerID string, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM aimentor.chats WHERE id = $1 AND learner_id = $2", id, learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	return expectAffected(res, "chat", id)
}

func scanChat(row rowScanner) (*models.Chat, error) {
	chat := &models.Chat{}
	var messagesJSON []byte

	err := row.Scan(&chat.ID, &chat.LearnerID, &chat.SessionID, &chat.Title, &chat.Source,
		&chat.Context, &chat.Summary, &messagesJSON, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := fromJSONB(messagesJSON, &chat.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	if chat.Messages == nil {
		chat.Messages = []models.ChatMessage{}
	}

	return chat, nil
}
