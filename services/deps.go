package services

import (
	"context"

	"aimentor/models"
	"aimentor/services/tutor"
)

// Tutor is the set of AI tasks the services depend on, satisfied by *tutor.Service.
type Tutor interface {
	AnalyzeSource(ctx context.Context, input string) (*models.SourceAnalysis, error)
	TutorChat(ctx context.Context, chatContext, message string, opts ...tutor.ChatOption) (*models.TutorReply, error)
	GenerateExam(ctx context.Context, topic string) (*models.GeneratedExam, error)
	GradeExam(ctx context.Context, topic string, questions []models.ExamQuestion, answers map[string]string) (*models.ExamGrading, error)
	SummarizeText(ctx context.Context, text string) (*models.TextSummary, error)
}

// SummaryIndex is satisfied by *docindex.Service.
type SummaryIndex interface {
	IndexSummary(ctx context.Context, summary *models.Summary) error
	DeleteSummary(ctx context.Context, id int) error
	SearchSummaries(ctx context.Context, learnerID, query string, limit int) ([]int, error)
}
