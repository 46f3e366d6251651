package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// thinkTagPattern strips <think>...</think> preambles that local reasoning
// models emit before their answer.
var thinkTagPattern = regexp.MustCompile(`(?s)^\s*<think>.*?</think>\s*`)

// ExtractJSONObject pulls the first balanced JSON object out of a model
// response that may be wrapped in reasoning tags, markdown fences, or prose.
func ExtractJSONObject(response string) (string, error) {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				candidate := cleaned[start : i+1]
				if !json.Valid([]byte(candidate)) {
					return "", fmt.Errorf("unbalanced or invalid JSON object in response")
				}
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}

// ParseJSONResponse extracts the first JSON object from a response and
// unmarshals it into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T
	jsonStr, err := ExtractJSONObject(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return result, nil
}
