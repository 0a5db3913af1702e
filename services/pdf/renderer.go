package pdf

import (
	"fmt"
	"io"

	"aimentor/models"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	margin = 50.0

	titleSize   = 20.0
	headingSize = 16.0
	bodySize    = 12.0

	bodyLineHeight = 16.0
	headingGap     = 4.0
	sectionGap     = 12.0
)

type rgb struct{ r, g, b int }

var (
	inkColor     = rgb{0x11, 0x18, 0x27}
	headingColor = rgb{0x43, 0x38, 0xCA}
)

type Renderer struct {
	logger *zap.SugaredLogger
}

func NewRenderer(logger *zap.SugaredLogger) *Renderer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Renderer{logger: logger}
}

// RenderTitle is Render for callers that hold the title and sections apart.
func (r *Renderer) RenderTitle(title string, sections []models.Section) io.ReadCloser {
	return r.Render(models.RenderSpec{Title: title, Sections: sections})
}

// Render lays out spec as an A4 PDF. The document is produced in the
// background; a rendering failure surfaces as the read error.
func (r *Renderer) Render(spec models.RenderSpec) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		err := r.write(pw, spec)
		if err != nil {
			r.logger.Errorf("Failed to render PDF %q: %v", spec.Title, err)
		}
		pw.CloseWithError(err)
	}()

	return pr
}

func (r *Renderer) write(w io.Writer, spec models.RenderSpec) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf rendering panicked: %v", rec)
		}
	}()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(spec.Title, true)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	setColor(doc, inkColor)
	doc.SetFont("Helvetica", "B", titleSize)
	doc.MultiCell(0, titleSize*1.2, tr(spec.Title), "", "C", false)
	doc.Ln(bodySize)

	for _, section := range spec.Sections {
		setColor(doc, headingColor)
		doc.SetFont("Helvetica", "BU", headingSize)
		doc.MultiCell(0, headingSize*1.2, tr(section.Heading), "", "L", false)
		doc.Ln(headingGap)

		setColor(doc, inkColor)
		doc.SetFont("Helvetica", "", bodySize)
		doc.MultiCell(0, bodyLineHeight, tr(section.Body), "", "L", false)
		doc.Ln(sectionGap)
	}

	if doc.Err() {
		return fmt.Errorf("failed to lay out pdf: %w", doc.Error())
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func setColor(doc *fpdf.Fpdf, c rgb) {
	doc.SetTextColor(c.r, c.g, c.b)
}
