package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"aimentor/models"

	"github.com/samber/lo"
)

func ChatRenderSpec(chat *models.Chat) models.RenderSpec {
	title := chat.Title
	if title == "" {
		title = "AI Mentor Session"
	}
	source := chat.Source
	if source == "" {
		source = "Custom prompt"
	}

	conversation := lo.Map(chat.Messages, func(m models.ChatMessage, _ int) string {
		return strings.ToUpper(m.Role) + ": " + m.Content
	})

	var summary string
	var reply models.TutorReply
	if chat.Summary != "" && json.Unmarshal([]byte(chat.Summary), &reply) == nil {
		summary = fmt.Sprintf("Reply: %s\n\nFollow Up: %s\n\nCitations: %s",
			reply.Reply, reply.FollowUp, strings.Join(reply.Citations, ", "))
	}

	return models.RenderSpec{
		Title: title,
		Sections: []models.Section{
			{Heading: "Source", Body: source},
			{Heading: "Conversation", Body: strings.Join(conversation, "\n\n")},
			{Heading: "Summary", Body: summary},
		},
	}
}

func ExamRenderSpec(exam *models.Exam) models.RenderSpec {
	questions := lo.Map(exam.Questions, func(q models.ExamQuestion, i int) string {
		line := fmt.Sprintf("%d. %s", i+1, q.Prompt)
		if len(q.Options) > 0 {
			line += "\nOptions: " + strings.Join(q.Options, ", ")
		}
		return line
	})

	feedback := lo.Map(exam.Feedback, func(f models.QuestionFeedback, i int) string {
		return fmt.Sprintf("%d. %s - %s\n%s", i+1, f.Question, f.Result, f.Explanation)
	})

	score := "Pending"
	if exam.Score != nil {
		score = strconv.FormatFloat(*exam.Score, 'f', -1, 64) + "/100"
	}

	return models.RenderSpec{
		Title: "AI Mentor Exam - " + exam.Topic,
		Sections: []models.Section{
			{Heading: "Questions", Body: strings.Join(questions, "\n\n")},
			{Heading: "Feedback", Body: strings.Join(feedback, "\n\n")},
			{Heading: "Score", Body: score},
		},
	}
}

func SummaryRenderSpec(summary *models.Summary) models.RenderSpec {
	title := "AI Mentor Summary"
	if summary.Source != "" {
		title = "Summary - " + summary.Source
	}

	quiz := lo.Map(summary.Quiz, func(q models.QuizItem, i int) string {
		return fmt.Sprintf("%d. %s\nAnswer: %s", i+1, q.Question, q.Answer)
	})

	return models.RenderSpec{
		Title: title,
		Sections: []models.Section{
			{Heading: "Key Summary", Body: strings.Join(summary.Summary, "\n")},
			{Heading: "Takeaways", Body: strings.Join(summary.Takeaways, "\n")},
			{Heading: "Quiz", Body: strings.Join(quiz, "\n\n")},
		},
	}
}
