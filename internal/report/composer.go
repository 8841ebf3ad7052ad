package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"registration-mailer/internal/domain"
)

const (
	// Title is the heading printed at the top of every report.
	Title = "Registration Info"

	fontFamily = "Helvetica"
	fontSize   = 12
)

// Line is a single piece of text placed on the page. X and Y are in points
// measured from the bottom-left corner.
type Line struct {
	X, Y float64
	Text string
}

// Layout returns the fixed lines of a report in drawing order.
func Layout(form domain.RegistrationForm, info domain.DerivedInfo) []Line {
	return []Line{
		{X: 250, Y: 800, Text: Title},
		{X: 100, Y: 750, Text: "Name: " + form.FullName()},
		{X: 100, Y: 730, Text: "Age: " + strconv.Itoa(info.Age)},
		{X: 100, Y: 710, Text: "Day of the Week of Birth: " + info.DayOfWeek},
	}
}

// Composer renders registration summaries as single page PDFs.
type Composer struct {
	Now func() time.Time
}

func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

// Compose draws the report for form and info and returns the PDF bytes.
// Text is set in core Helvetica, so characters outside cp1252 are printed
// as dots.
func (c *Composer) Compose(form domain.RegistrationForm, info domain.DerivedInfo) ([]byte, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	stamp := now()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("registration-mailer", true)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	for _, line := range Layout(form, info) {
		pdf.Text(line.X, pageHeight-line.Y, tr(line.Text))
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: write pdf: %v", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}
