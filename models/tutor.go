package models

// Result shapes the tutor asks the model to produce. Field tags double as
// the JSON description embedded in each prompt.

type SourceAnalysis struct {
	Title     string   `json:"title" jsonschema:"description=Short title for the material"`
	Summary   string   `json:"summary" jsonschema:"description=Concise summary of the material"`
	Insights  []string `json:"insights" jsonschema:"description=Five key insights"`
	Questions []string `json:"questions" jsonschema:"description=Five follow-up questions"`
}

type TutorReply struct {
	Reply     string   `json:"reply" jsonschema:"description=Detailed explanation"`
	FollowUp  string   `json:"followUp" jsonschema:"description=One follow-up question for the learner"`
	Citations []string `json:"citations" jsonschema:"description=Three short citations or references"`
}

const (
	QuestionTypeMCQ   = "mcq"
	QuestionTypeShort = "short"
)

type ExamQuestion struct {
	Type    string   `json:"type" jsonschema:"enum=mcq,enum=short"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
}

type GeneratedExam struct {
	Questions []ExamQuestion `json:"questions"`
	Rubric    []string       `json:"rubric"`
	Guidance  string         `json:"guidance"`
}

type QuestionFeedback struct {
	Question    string `json:"question"`
	Result      string `json:"result"`
	Explanation string `json:"explanation"`
}

type ExamGrading struct {
	Feedback []QuestionFeedback `json:"feedback"`
	Score    float64            `json:"score" jsonschema:"minimum=0,maximum=100"`
}

type QuizItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TextSummary struct {
	Summary   []string   `json:"summary" jsonschema:"description=Key points"`
	Takeaways []string   `json:"takeaways"`
	Quiz      []QuizItem `json:"quiz" jsonschema:"description=Three quiz questions with answers"`
}
