package genai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parsed struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected parsed
	}{
		{
			name:     "fenced block with prose",
			input:    "Here you go:\n```json\n{\"title\":\"Cells\",\"items\":[\"a\"]}\n```\nHope this helps {really}.",
			expected: parsed{Title: "Cells", Items: []string{"a"}},
		},
		{
			name:     "untagged fence",
			input:    "```\n{\"title\":\"Atoms\"}\n```",
			expected: parsed{Title: "Atoms"},
		},
		{
			name:     "brace span with commentary",
			input:    "Sure! {\"title\":\"Paris\",\"items\":[\"capital\"]} Let me know.",
			expected: parsed{Title: "Paris", Items: []string{"capital"}},
		},
		{
			name:     "verbatim",
			input:    "  {\"title\":\"Plain\"}  ",
			expected: parsed{Title: "Plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[parsed](tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseJSON_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		_, err := ParseJSON[parsed](input)
		assert.True(t, errors.Is(err, ErrEmptyResponse))
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, input := range []string{
		"no json here",
		"{\"title\": \"unbalanced\"",
		"} backwards {",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseJSON[parsed](input)
			assert.True(t, errors.Is(err, ErrInvalidJSON))
		})
	}
}

func TestParseJSON_FenceWinsOverBraces(t *testing.T) {
	input := "{\"title\":\"outside\"}\n```json\n{\"title\":\"inside\"}\n```"

	got, err := ParseJSON[parsed](input)

	require.NoError(t, err)
	assert.Equal(t, "inside", got.Title)
}
