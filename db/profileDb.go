package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aimentor/models"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, learnerID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(conn *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: conn}
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, learnerID string) (*models.Profile, error) {
	query := `
		SELECT id, learner_id, email, name, avatar, xp, badges, preferences, created_at, updated_at
		FROM aimentor.profiles
		WHERE learner_id = $1`

	profile := &models.Profile{}
	var badgesJSON, preferencesJSON []byte

	err := r.db.QueryRowContext(ctx, query, learnerID).Scan(&profile.ID, &profile.LearnerID, &profile.Email,
		&profile.Name, &profile.Avatar, &profile.XP, &badgesJSON, &preferencesJSON, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile for learner %s: %w", learnerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := fromJSONB(badgesJSON, &profile.Badges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal badges: %w", err)
	}
	if profile.Badges == nil {
		profile.Badges = []string{}
	}
	profile.Preferences = models.DefaultPreferences()
	if err := fromJSONB(preferencesJSON, &profile.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return profile, nil
}

// UpsertProfile inserts the profile or overwrites the editable fields of an
// existing one. XP and badges are only set on insert.
func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	badgesJSON, err := toJSONB(profile.Badges)
	if err != nil {
		return fmt.Errorf("failed to marshal badges: %w", err)
	}
	preferencesJSON, err := toJSONB(profile.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	query := `
		INSERT INTO aimentor.profiles (learner_id, email, name, avatar, xp, badges, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (learner_id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, avatar = EXCLUDED.avatar,
		    preferences = EXCLUDED.preferences, updated_at = NOW()
		RETURNING id, xp, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, profile.LearnerID, profile.Email, profile.Name, profile.Avatar,
		profile.XP, badgesJSON, preferencesJSON)
	if err := row.Scan(&profile.ID, &profile.XP, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
