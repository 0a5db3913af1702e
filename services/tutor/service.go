package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aimentor/models"
	"aimentor/services/genai"

	"go.uber.org/zap"
)

var ErrMissingInput = errors.New("missing required input")

// Generator is the text generation dependency, satisfied by *genai.Client.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)
}

type Service struct {
	generator Generator
	logger    *zap.SugaredLogger
}

func NewService(generator Generator, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{generator: generator, logger: logger}
}

type chatOptions struct {
	systemInstruction string
}

type ChatOption func(*chatOptions)

// WithPersona answers in the voice of an expert persona.
func WithPersona(prompt, tone string) ChatOption {
	return func(o *chatOptions) {
		prompt = strings.TrimSpace(prompt)
		tone = strings.TrimSpace(tone)
		switch {
		case prompt == "":
			return
		case tone == "":
			o.systemInstruction = prompt
		default:
			o.systemInstruction = fmt.Sprintf(personaInstruction, prompt, tone)
		}
	}
}

func (s *Service) AnalyzeSource(ctx context.Context, input string) (*models.SourceAnalysis, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: source", ErrMissingInput)
	}

	s.logger.Infof("Analyzing source (%d chars)", len(input))
	prompt := fmt.Sprintf(analyzeSourcePrompt, sourceAnalysisShape, input)
	return generate[models.SourceAnalysis](ctx, s, "analyze source", prompt, "")
}

func (s *Service) TutorChat(ctx context.Context, chatContext, message string, opts ...ChatOption) (*models.TutorReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message", ErrMissingInput)
	}

	var o chatOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.logger.Infof("Generating tutor reply (persona: %t)", o.systemInstruction != "")
	prompt := fmt.Sprintf(tutorChatPrompt, chatContext, message, tutorReplyShape)
	return generate[models.TutorReply](ctx, s, "tutor chat", prompt, o.systemInstruction)
}

func (s *Service) GenerateExam(ctx context.Context, topic string) (*models.GeneratedExam, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic", ErrMissingInput)
	}

	s.logger.Infof("Generating exam for topic %q", topic)
	prompt := fmt.Sprintf(generateExamPrompt, topic, generatedExamShape)
	return generate[models.GeneratedExam](ctx, s, "generate exam", prompt, generateExamSystemInstruction)
}

func (s *Service) GradeExam(ctx context.Context, topic string, questions []models.ExamQuestion, answers map[string]string) (*models.ExamGrading, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic", ErrMissingInput)
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	if answers == nil {
		answers = map[string]string{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	s.logger.Infof("Grading exam for topic %q with %d questions and %d answers", topic, len(questions), len(answers))
	prompt := fmt.Sprintf(gradeExamPrompt, topic, questionsJSON, answersJSON, examGradingShape)
	return generate[models.ExamGrading](ctx, s, "grade exam", prompt, "")
}

func (s *Service) SummarizeText(ctx context.Context, text string) (*models.TextSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text", ErrMissingInput)
	}

	s.logger.Infof("Summarizing text (%d chars)", len(text))
	prompt := fmt.Sprintf(summarizeTextPrompt, textSummaryShape, text)
	return generate[models.TextSummary](ctx, s, "summarize text", prompt, "")
}

func generate[T any](ctx context.Context, s *Service, task, prompt, systemInstruction string) (*T, error) {
	text, err := s.generator.Generate(ctx, prompt, systemInstruction)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", task, err)
	}

	result, err := genai.ParseJSON[T](text)
	if err != nil {
		s.logger.Errorf("Failed to parse %s response: %v (response: %.200s)", task, err, text)
		return nil, fmt.Errorf("failed to %s: %w", task, err)
	}

	return &result, nil
}
