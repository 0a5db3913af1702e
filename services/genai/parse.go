package genai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ParseJSON decodes a model reply into T. It tries, in order, the first
// fenced code block, the span from the first '{' to the last '}', and the
// trimmed text itself. The first candidate that decodes wins.
func ParseJSON[T any](text string) (T, error) {
	var zero T

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return zero, ErrEmptyResponse
	}

	var lastErr error
	for _, candidate := range jsonCandidates(trimmed) {
		var value T
		if err := json.Unmarshal([]byte(candidate), &value); err != nil {
			lastErr = err
			continue
		}
		return value, nil
	}

	return zero, fmt.Errorf("%w: %v", ErrInvalidJSON, lastErr)
}

func jsonCandidates(text string) []string {
	candidates := make([]string, 0, 3)

	if match := fencedBlock.FindStringSubmatch(text); match != nil {
		if block := strings.TrimSpace(match[1]); block != "" {
			candidates = append(candidates, block)
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidates = append(candidates, text[start:end+1])
	}

	return append(candidates, text)
}
