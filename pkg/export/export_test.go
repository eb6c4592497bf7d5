package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Session history",
		Headers: []string{"date", "skill", "status"},
		Rows: []map[string]string{
			{"date": "2026-01-02 10:00", "skill": "Python", "status": "completed"},
			{"date": "2026-01-09 10:00", "skill": "Guitar"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, sample())
	require.NoError(t, err)
	assert.Equal(t, "date,skill,status\n2026-01-02 10:00,Python,completed\n2026-01-09 10:00,Guitar,\n", string(out))
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(FormatPDF, sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := Render(FormatCSV, Dataset{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	f, ok = ParseFormat(" PDF ")
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, ok = ParseFormat("xlsx")
	assert.False(t, ok)
}
