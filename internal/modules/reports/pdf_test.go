package reports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, SummaryLines(testPositions, 2300)))

	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "%PDF-1.4\n"), "PDF header")
	assert.True(t, strings.HasSuffix(out, "%%EOF\n"), "PDF trailer")

	assert.Contains(t, out, "/BaseFont /Helvetica")
	assert.Contains(t, out, "/MediaBox [0 0 612 792]")
	assert.Contains(t, out, "(Stock Portfolio Summary) Tj")
	assert.Contains(t, out, "(Apple - 10 shares - $1,800.00) Tj")
	assert.Contains(t, out, "(Total Investment Value: $2,300.00) Tj")
}

func TestWritePDF_EscapesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, []string{`Fund (Class A) \ B`}))

	assert.Contains(t, buf.String(), `(Fund \(Class A\) \\ B) Tj`)
}

func TestEscapePDFText(t *testing.T) {
	assert.Equal(t, `\(x\)`, escapePDFText(`(x)`))
	assert.Equal(t, `a\\b`, escapePDFText(`a\b`))
	assert.Equal(t, "plain", escapePDFText("plain"))
}
