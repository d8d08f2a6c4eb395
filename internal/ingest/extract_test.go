package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		want     Format
	}{
		{"pdf mime", "resume.bin", "application/pdf", FormatPDF},
		{"docx mime", "resume.bin", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDOCX},
		{"txt mime", "resume.bin", "text/plain", FormatTXT},
		{"pdf扩展名兜底", "resume.PDF", "application/octet-stream", FormatPDF},
		{"docx扩展名兜底", "resume.docx", "", FormatDOCX},
		{"txt扩展名兜底", "notes.txt", "", FormatTXT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.mimeType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatUnsupported(t *testing.T) {
	_, err := DetectFormat("resume.doc", "application/msword")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DetectFormat("photo.png", "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText([]byte("plain resume content"), "resume.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "plain resume content", text)
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText([]byte{0x00}, "resume.odt", "application/vnd.oasis.opendocument.text")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextMalformedPDF(t *testing.T) {
	_, err := ExtractText([]byte("not a pdf"), "resume.pdf", "application/pdf")
	assert.Error(t, err)
}
