package models

import "time"

type Exam struct {
	ID        int                `json:"id"`
	LearnerID string             `json:"learnerId"`
	Topic     string             `json:"topic"`
	Questions []ExamQuestion     `json:"questions"`
	Answers   map[string]string  `json:"answers"`
	Feedback  []QuestionFeedback `json:"feedback"`
	Score     *float64           `json:"score,omitempty"`
	Summary   string             `json:"summary,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ExamRequest generates a new exam when ExamID is nil and grades the
// referenced exam otherwise. Answers are keyed by question index.
type ExamRequest struct {
	ExamID    *int              `json:"examId,omitempty"`
	Topic     string            `json:"topic,omitempty"`
	Questions []ExamQuestion    `json:"questions,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`
}

type UpdateExamRequest struct {
	Topic *string `json:"topic,omitempty"`
}
