package models

import "time"

type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: "system", Notifications: true}
}

type Profile struct {
	ID          int         `json:"id"`
	LearnerID   string      `json:"learnerId"`
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	XP          int         `json:"xp"`
	Badges      []string    `json:"badges"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Email       *string      `json:"email,omitempty"`
	Name        *string      `json:"name,omitempty"`
	Avatar      *string      `json:"avatar,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Stats struct {
	Chats     int             `json:"chats"`
	Exams     int             `json:"exams"`
	Summaries int             `json:"summaries"`
	Timeline  []TimelinePoint `json:"timeline"`
}
