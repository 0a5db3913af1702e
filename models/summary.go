package models

import "time"

type Summary struct {
	ID        int        `json:"id"`
	LearnerID string     `json:"learnerId"`
	Source    string     `json:"source,omitempty"`
	Text      string     `json:"text"`
	Summary   []string   `json:"summary"`
	Takeaways []string   `json:"takeaways"`
	Quiz      []QuizItem `json:"quiz"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CreateSummaryRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type UpdateSummaryRequest struct {
	Source *string `json:"source,omitempty"`
}
