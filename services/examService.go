package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aimentor/db"
	"aimentor/models"

	"go.uber.org/zap"
)

type ExamService struct {
	repo   db.ExamRepository
	tutor  Tutor
	logger *zap.SugaredLogger
}

func NewExamService(repo db.ExamRepository, t Tutor, logger *zap.SugaredLogger) *ExamService {
	return &ExamService{repo: repo, tutor: t, logger: logger}
}

// Process generates a new exam, or grades the exam named by req.ExamID.
func (s *ExamService) Process(ctx context.Context, learnerID string, req *models.ExamRequest) (*models.Exam, error) {
	if req.ExamID == nil {
		return s.generate(ctx, learnerID, req.Topic)
	}
	return s.grade(ctx, learnerID, *req.ExamID, req)
}

func (s *ExamService) generate(ctx context.Context, learnerID, topic string) (*models.Exam, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}

	s.logger.Infof("Starting exam generation for topic %q", topic)

	generated, err := s.tutor.GenerateExam(ctx, topic)
	if err != nil {
		s.logger.Errorf("Exam generation failed for topic %q: %v", topic, err)
		return nil, err
	}

	exam := &models.Exam{
		LearnerID: learnerID,
		Topic:     topic,
		Questions: generated.Questions,
		Answers:   map[string]string{},
		Feedback:  []models.QuestionFeedback{},
		Summary:   generated.Guidance,
	}

	if err := s.repo.CreateExam(ctx, exam); err != nil {
		s.logger.Errorf("Failed to create exam: %v", err)
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Infof("Successfully created exam %d with %d questions", exam.ID, len(exam.Questions))
	return exam, nil
}

func (s *ExamService) grade(ctx context.Context, learnerID string, examID int, req *models.ExamRequest) (*models.Exam, error) {
	s.logger.Infof("Starting exam grading for exam ID %d", examID)

	exam, err := s.repo.GetExam(ctx, learnerID, examID)
	if err != nil {
		s.logger.Errorf("Failed to load exam %d: %v", examID, err)
		return nil, err
	}

	questions := exam.Questions
	if len(req.Questions) > 0 {
		questions = req.Questions
	}
	answers := req.Answers
	if answers == nil {
		answers = map[string]string{}
	}

	grading, err := s.tutor.GradeExam(ctx, exam.Topic, questions, answers)
	if err != nil {
		s.logger.Errorf("Grading failed for exam %d: %v", examID, err)
		return nil, err
	}

	gradingJSON, err := json.Marshal(grading)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grading: %w", err)
	}

	score := grading.Score
	exam.Answers = answers
	exam.Feedback = grading.Feedback
	exam.Score = &score
	exam.Summary = string(gradingJSON)

	if err := s.repo.UpdateExam(ctx, exam); err != nil {
		s.logger.Errorf("Failed to save grading for exam %d: %v", examID, err)
		return nil, fmt.Errorf("failed to save exam: %w", err)
	}

	s.logger.Infof("Successfully graded exam %d with score %.1f", examID, score)
	return exam, nil
}

func (s *ExamService) List(ctx context.Context, learnerID string) ([]*models.Exam, error) {
	return s.repo.ListExams(ctx, learnerID)
}

func (s *ExamService) Get(ctx context.Context, learnerID string, id int) (*models.Exam, error) {
	return s.repo.GetExam(ctx, learnerID, id)
}

func (s *ExamService) Update(ctx context.Context, learnerID string, id int, req *models.UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.repo.GetExam(ctx, learnerID, id)
	if err != nil {
		return nil, err
	}

	if req.Topic != nil {
		topic := strings.TrimSpace(*req.Topic)
		if topic == "" {
			return nil, fmt.Errorf("%w: topic cannot be empty", ErrInvalidInput)
		}
		exam.Topic = topic
	}

	if err := s.repo.UpdateExam(ctx, exam); err != nil {
		s.logger.Errorf("Failed to update exam %d: %v", id, err)
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Delete(ctx context.Context, learnerID string, id int) error {
	if err := s.repo.DeleteExam(ctx, learnerID, id); err != nil {
		s.logger.Errorf("Failed to delete exam %d: %v", id, err)
		return err
	}
	s.logger.Infof("Successfully deleted exam %d", id)
	return nil
}
