package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no tags here", "no tags here"},
		{"heading", "<h1>SOW Acme - Portal</h1>", " SOW Acme - Portal "},
		{"nested", "<p><strong>Fees</strong> apply</p>", "  Fees  apply "},
		{"unterminated", "text <span class", "text  "},
		{"entities kept", "<p>A &amp; B</p>", " A &amp; B "},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeLeavesNoAngleBracketTags(t *testing.T) {
	out := Normalize("<div><p>a</p><ul><li>b</li></ul></div><br/>")
	assert.False(t, strings.Contains(out, "<"))
}
