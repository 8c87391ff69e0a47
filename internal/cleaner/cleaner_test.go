package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPosting(t *testing.T) {
	c := NewCleaner()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "  Senior Go Developer at Acme.\nRemote.  ",
			expected: "Senior Go Developer at Acme.\nRemote.",
		},
		{
			name:     "html boilerplate stripped",
			input:    "<html><body><nav>menu</nav><p>Go Developer</p><li>5 years Go</li><footer>foo</footer></body></html>",
			expected: "Go Developer\n\n5 years Go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.CleanPosting(tt.input))
		})
	}
}

func TestCleanLlmResponse(t *testing.T) {
	c := NewCleaner()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"title": "Dev"}`, `{"title": "Dev"}`},
		{"json fence", "```json\n{\"title\": \"Dev\"}\n```", `{"title": "Dev"}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"markdown fence", "```markdown\n# Resume\n```", "# Resume"},
		{"prose around fence", "Here you go:\n```json\n{}\n```\nHope that helps!", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.CleanLlmResponse(tt.input))
		})
	}
}
