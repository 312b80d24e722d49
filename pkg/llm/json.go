package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// leadingThinkBlock matches a reasoning block some models emit before the answer.
	leadingThinkBlock = regexp.MustCompile(`(?s)^\s*<think>.*?</think>`)
	// codeFence matches a markdown fence line such as "```json".
	codeFence = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
)

var errNoJSON = errors.New("no valid JSON found in response")

// ExtractJSON returns the first complete JSON value in a model response.
// Reasoning blocks, markdown fences and surrounding prose are ignored.
func ExtractJSON(response string) (string, error) {
	text := leadingThinkBlock.ReplaceAllString(response, "")
	text = codeFence.ReplaceAllString(text, "")

	for from := 0; from < len(text); {
		start := strings.IndexAny(text[from:], "{[")
		if start < 0 {
			break
		}
		start += from

		candidate, ok := balancedValue(text[start:])
		if ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		from = start + 1
	}

	if trimmed := strings.TrimSpace(text); trimmed != "" && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}
	return "", errNoJSON
}

// balancedValue returns the prefix of s, which starts with '{' or '[', up to
// the bracket that closes it. Brackets inside string literals are skipped.
func balancedValue(s string) (string, bool) {
	var open []byte
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{' || c == '[':
			open = append(open, c)
		case c == '}' || c == ']':
			if len(open) == 0 || !matches(open[len(open)-1], c) {
				return "", false
			}
			open = open[:len(open)-1]
			if len(open) == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

func matches(opening, closing byte) bool {
	return (opening == '{' && closing == '}') || (opening == '[' && closing == ']')
}

// ParseJSONResponse extracts JSON from a response and unmarshals it into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	raw, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return result, nil
}
