package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		key, given, want string
	}{
		{"documents/1/SOW.DOCX", "", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"documents/1/sow.pdf", "application/octet-stream", "application/pdf"},
		{"documents/1/sow.pdf", "application/x-pdf", "application/x-pdf"},
		{"documents/1/notes.bin", "", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.key, tt.given))
		})
	}
}
