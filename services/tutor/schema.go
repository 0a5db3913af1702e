package tutor

import (
	"encoding/json"

	"aimentor/models"

	"github.com/invopop/jsonschema"
)

var (
	sourceAnalysisShape = shapeOf(&models.SourceAnalysis{})
	tutorReplyShape     = shapeOf(&models.TutorReply{})
	generatedExamShape  = shapeOf(&models.GeneratedExam{})
	examGradingShape    = shapeOf(&models.ExamGrading{})
	textSummaryShape    = shapeOf(&models.TextSummary{})
)

// shapeOf renders the JSON schema of v for embedding in a prompt.
func shapeOf(v any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic("tutor: cannot render response schema: " + err.Error())
	}
	return string(data)
}
