package services

import (
	"context"
	"fmt"
	"strings"

	"aimentor/db"
	"aimentor/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var presetExperts = []models.Expert{
	{
		Name:        "AI Researcher",
		Description: "Deep dives into cutting-edge AI concepts.",
		Tone:        "Analytical and precise",
		Prompt:      "You are an AI research expert who cites papers and explains clearly.",
	},
	{
		Name:        "Web Architect",
		Description: "Guides modern web development decisions.",
		Tone:        "Practical and friendly",
		Prompt:      "You are a senior full-stack engineer focusing on DX and performance.",
	},
	{
		Name:        "Data Strategist",
		Description: "Simplifies complex data workflows.",
		Tone:        "Insightful and data-driven",
		Prompt:      "You are a data expert who blends statistics and intuition.",
	},
	{
		Name:        "Mathematics Sage",
		Description: "Explains math concepts with proofs and intuition.",
		Tone:        "Patient and rigorous",
		Prompt:      "You are a math tutor who mixes theory with examples.",
	},
}

type ExpertService struct {
	repo   db.ExpertRepository
	logger *zap.SugaredLogger
}

func NewExpertService(repo db.ExpertRepository, logger *zap.SugaredLogger) *ExpertService {
	return &ExpertService{repo: repo, logger: logger}
}

// List returns the learner's experts newest first, seeding the presets the
// first time. A non-empty query keeps only fuzzy matches on name or description.
func (s *ExpertService) List(ctx context.Context, learnerID, query string) ([]*models.Expert, error) {
	experts, err := s.repo.ListExperts(ctx, learnerID)
	if err != nil {
		s.logger.Errorf("Failed to list experts: %v", err)
		return nil, err
	}

	hasPresets := lo.ContainsBy(experts, func(e *models.Expert) bool { return e.IsPreset })
	if !hasPresets {
		if err := s.seedPresets(ctx, learnerID); err != nil {
			return nil, err
		}
		if experts, err = s.repo.ListExperts(ctx, learnerID); err != nil {
			return nil, err
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return experts, nil
	}

	terms := strings.Fields(query)
	matching := lo.Filter(experts, func(e *models.Expert, _ int) bool {
		return expertMatchesSearch(e, terms)
	})

	s.logger.Infof("Found %d experts matching %q", len(matching), query)
	return matching, nil
}

func (s *ExpertService) seedPresets(ctx context.Context, learnerID string) error {
	s.logger.Infof("Seeding %d preset experts for learner %s", len(presetExperts), learnerID)

	for _, preset := range presetExperts {
		expert := preset
		expert.LearnerID = learnerID
		expert.IsPreset = true
		if err := s.repo.CreateExpert(ctx, &expert); err != nil {
			s.logger.Errorf("Failed to seed preset %q: %v", preset.Name, err)
			return fmt.Errorf("failed to seed preset experts: %w", err)
		}
	}
	return nil
}

func (s *ExpertService) Get(ctx context.Context, learnerID string, id int) (*models.Expert, error) {
	return s.repo.GetExpert(ctx, learnerID, id)
}

func (s *ExpertService) Create(ctx context.Context, learnerID string, req *models.ExpertRequest) (*models.Expert, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}

	expert := &models.Expert{
		LearnerID:   learnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Tone:        strings.TrimSpace(req.Tone),
		Prompt:      strings.TrimSpace(req.Prompt),
	}

	if err := s.repo.CreateExpert(ctx, expert); err != nil {
		s.logger.Errorf("Failed to create expert: %v", err)
		return nil, fmt.Errorf("failed to save expert: %w", err)
	}

	s.logger.Infof("Successfully created expert %d", expert.ID)
	return expert, nil
}

// Update edits a custom expert. Presets are reported as not found.
func (s *ExpertService) Update(ctx context.Context, learnerID string, id int, req *models.UpdateExpertRequest) (*models.Expert, error) {
	expert, err := s.repo.GetExpert(ctx, learnerID, id)
	if err != nil {
		return nil, err
	}
	if expert.IsPreset {
		return nil, fmt.Errorf("preset expert %d cannot be modified: %w", id, ErrNotFound)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		expert.Name = strings.TrimSpace(*req.Name)
	}
	if req.Prompt != nil {
		if strings.TrimSpace(*req.Prompt) == "" {
			return nil, fmt.Errorf("%w: prompt cannot be empty", ErrInvalidInput)
		}
		expert.Prompt = strings.TrimSpace(*req.Prompt)
	}
	if req.Description != nil {
		expert.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tone != nil {
		expert.Tone = strings.TrimSpace(*req.Tone)
	}

	if err := s.repo.UpdateExpert(ctx, expert); err != nil {
		s.logger.Errorf("Failed to update expert %d: %v", id, err)
		return nil, err
	}
	return expert, nil
}

func (s *ExpertService) Delete(ctx context.Context, learnerID string, id int) error {
	if err := s.repo.DeleteExpert(ctx, learnerID, id); err != nil {
		s.logger.Errorf("Failed to delete expert %d: %v", id, err)
		return err
	}
	s.logger.Infof("Successfully deleted expert %d", id)
	return nil
}

func expertMatchesSearch(expert *models.Expert, terms []string) bool {
	text := expert.Name + " " + expert.Description
	words := lo.FilterMap(strings.Fields(strings.ToLower(text)), func(word string, _ int) (string, bool) {
		clean := strings.Trim(word, ".,!?;:()[]{}\"'")
		return clean, clean != ""
	})

	for _, term := range terms {
		if fuzzy.MatchFold(term, text) {
			return true
		}
		if len(fuzzy.FindFold(term, words)) > 0 {
			return true
		}
	}
	return false
}
