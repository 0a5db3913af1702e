package services

import (
	"testing"

	"aimentor/models"

	"github.com/stretchr/testify/assert"
)

func TestChatRenderSpec(t *testing.T) {
	chat := &models.Chat{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "What is Go?"},
			{Role: models.RoleAssistant, Content: "A language."},
		},
		Summary: `{"reply":"A language.","followUp":"Why Go?","citations":["go.dev","tour"]}`,
	}

	spec := ChatRenderSpec(chat)

	assert.Equal(t, "AI Mentor Session", spec.Title)
	assert.Equal(t, []models.Section{
		{Heading: "Source", Body: "Custom prompt"},
		{Heading: "Conversation", Body: "USER: What is Go?\n\nASSISTANT: A language."},
		{Heading: "Summary", Body: "Reply: A language.\n\nFollow Up: Why Go?\n\nCitations: go.dev, tour"},
	}, spec.Sections)
}

func TestExamRenderSpec(t *testing.T) {
	score := 85.0
	exam := &models.Exam{
		Topic: "Photosynthesis",
		Questions: []models.ExamQuestion{
			{Prompt: "Which gas?", Options: []string{"CO2", "O2"}},
			{Prompt: "Define chlorophyll"},
		},
		Feedback: []models.QuestionFeedback{{Question: "Which gas?", Result: "correct", Explanation: "CO2 is absorbed"}},
		Score:    &score,
	}

	spec := ExamRenderSpec(exam)

	assert.Equal(t, "AI Mentor Exam - Photosynthesis", spec.Title)
	assert.Equal(t, "1. Which gas?\nOptions: CO2, O2\n\n2. Define chlorophyll", spec.Sections[0].Body)
	assert.Equal(t, "1. Which gas? - correct\nCO2 is absorbed", spec.Sections[1].Body)
	assert.Equal(t, "85/100", spec.Sections[2].Body)

	exam.Score = nil
	assert.Equal(t, "Pending", ExamRenderSpec(exam).Sections[2].Body)
}

func TestSummaryRenderSpec(t *testing.T) {
	summary := &models.Summary{
		Summary:   []string{"One", "Two"},
		Takeaways: []string{"Act"},
		Quiz:      []models.QuizItem{{Question: "Q?", Answer: "A"}},
	}

	spec := SummaryRenderSpec(summary)
	assert.Equal(t, "AI Mentor Summary", spec.Title)
	assert.Equal(t, "One\nTwo", spec.Sections[0].Body)
	assert.Equal(t, "1. Q?\nAnswer: A", spec.Sections[2].Body)

	summary.Source = "Lecture 3"
	assert.Equal(t, "Summary - Lecture 3", SummaryRenderSpec(summary).Title)
}
