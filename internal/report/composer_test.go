package report

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration-mailer/internal/domain"
)

var textOps = regexp.MustCompile(`BT ([0-9.]+) ([0-9.]+) Td \((.*?)\) Tj ET`)

type drawn struct {
	x, y, text string
}

func drawnText(t *testing.T, doc []byte) []drawn {
	t.Helper()
	var out []drawn
	for _, m := range textOps.FindAllSubmatch(doc, -1) {
		out = append(out, drawn{x: string(m[1]), y: string(m[2]), text: string(m[3])})
	}
	return out
}

func sampleForm() domain.RegistrationForm {
	return domain.RegistrationForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		DOB:       "1990-01-01",
		Email:     "ada@example.com",
	}
}

func TestComposeDrawsFourLines(t *testing.T) {
	c := NewComposer()
	doc, err := c.Compose(sampleForm(), domain.DerivedInfo{Age: 34, DayOfWeek: "Monday"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	lines := drawnText(t, doc)
	require.Len(t, lines, 4)
	assert.Equal(t, []drawn{
		{"250.00", "800.00", "Registration Info"},
		{"100.00", "750.00", "Name: Ada Lovelace"},
		{"100.00", "730.00", "Age: 34"},
		{"100.00", "710.00", "Day of the Week of Birth: Monday"},
	}, lines)
}

func TestComposeIsDeterministic(t *testing.T) {
	info := domain.DerivedInfo{Age: 7, DayOfWeek: "Friday"}

	first, err := (&Composer{Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}).Compose(sampleForm(), info)
	require.NoError(t, err)
	second, err := (&Composer{Now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }}).Compose(sampleForm(), info)
	require.NoError(t, err)

	assert.Equal(t, drawnText(t, first), drawnText(t, second))
}

func TestLayoutOrder(t *testing.T) {
	lines := Layout(sampleForm(), domain.DerivedInfo{Age: 0, DayOfWeek: "Sunday"})
	require.Len(t, lines, 4)
	assert.Equal(t, Title, lines[0].Text)
	assert.Equal(t, "Name: Ada Lovelace", lines[1].Text)
	assert.Equal(t, "Age: 0", lines[2].Text)
	assert.Equal(t, "Day of the Week of Birth: Sunday", lines[3].Text)
	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i].Y, lines[i-1].Y)
	}
}
