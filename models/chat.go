package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultChatTitle = "New AI Tutorial"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Chat struct {
	ID        int           `json:"id"`
	LearnerID string        `json:"learnerId"`
	SessionID string        `json:"sessionId"`
	Title     string        `json:"title"`
	Source    string        `json:"source,omitempty"`
	Context   string        `json:"context,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ChatRequest struct {
	ChatID   *int   `json:"chatId,omitempty"`
	Source   string `json:"source,omitempty"`
	Context  string `json:"context,omitempty"`
	Message  string `json:"message,omitempty"`
	Title    string `json:"title,omitempty"`
	ExpertID *int   `json:"expertId,omitempty"`
}

type UpdateChatRequest struct {
	Title   *string `json:"title,omitempty"`
	Source  *string `json:"source,omitempty"`
	Context *string `json:"context,omitempty"`
}
