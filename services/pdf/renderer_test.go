package pdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"aimentor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ExamReport(t *testing.T) {
	r := NewRenderer(nil)

	stream := r.Render(models.RenderSpec{
		Title:    "Exam Report",
		Sections: []models.Section{{Heading: "Score", Body: "85/100"}},
	})
	defer stream.Close()

	data, err := io.ReadAll(stream)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderTitle_LongAndUnicodeBody(t *testing.T) {
	r := NewRenderer(nil)
	body := strings.Repeat("Café résumé naïve. ", 400)

	stream := r.RenderTitle("Summary - Notes", []models.Section{
		{Heading: "Key Summary", Body: body},
		{Heading: "Takeaways", Body: "- one\n- two"},
	})
	defer stream.Close()

	data, err := io.ReadAll(stream)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_NoSections(t *testing.T) {
	data, err := io.ReadAll(NewRenderer(nil).Render(models.RenderSpec{Title: "Empty"}))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := NewRenderer(nil).write(failingWriter{}, models.RenderSpec{Title: "X"})

	assert.ErrorContains(t, err, "disk full")
}
