package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aimentor/db"
	"aimentor/models"

	"go.uber.org/zap"
)

type ProfileService struct {
	repo   db.ProfileRepository
	logger *zap.SugaredLogger
}

func NewProfileService(repo db.ProfileRepository, logger *zap.SugaredLogger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// Get returns the learner's profile, creating a default one if needed.
func (s *ProfileService) Get(ctx context.Context, learnerID string) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, learnerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Errorf("Failed to load profile for %s: %v", learnerID, err)
		return nil, err
	}

	profile = &models.Profile{
		LearnerID:   learnerID,
		Email:       learnerID + "@example.com",
		Badges:      []string{},
		Preferences: models.DefaultPreferences(),
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		s.logger.Errorf("Failed to create profile for %s: %v", learnerID, err)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Infof("Created default profile for learner %s", learnerID)
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, learnerID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
		}
		profile.Email = email
	}
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Avatar != nil {
		profile.Avatar = strings.TrimSpace(*req.Avatar)
	}
	if req.Preferences != nil {
		profile.Preferences = *req.Preferences
		if profile.Preferences.Theme == "" {
			profile.Preferences.Theme = models.DefaultPreferences().Theme
		}
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		s.logger.Errorf("Failed to save profile for %s: %v", learnerID, err)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}
