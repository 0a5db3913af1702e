package models

import "time"

type Expert struct {
	ID          int       `json:"id"`
	LearnerID   string    `json:"learnerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tone        string    `json:"tone,omitempty"`
	Prompt      string    `json:"prompt"`
	IsPreset    bool      `json:"isPreset"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ExpertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Prompt      string `json:"prompt"`
}

type UpdateExpertRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Tone        *string `json:"tone,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
}
