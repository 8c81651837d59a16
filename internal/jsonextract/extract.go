// Package jsonextract recovers a JSON object from a model response that may be
// pure JSON, JSON fenced in a markdown code block, or JSON embedded in
// surrounding prose. Even when asked for strict JSON output, the generative
// backend sometimes prepends or appends text.
package jsonextract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractionError reports that no strategy could recover a JSON object. It
// carries the original response text for diagnostics.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no json object found in response: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Object extracts a single JSON object from raw. Strategies are tried in
// order, first success wins:
//  1. parse the whole string as JSON
//  2. parse the contents of a fenced code block
//  3. parse the substring between the first '{' and the last '}'
func Object(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)

	var data map[string]any
	firstErr := json.Unmarshal([]byte(trimmed), &data)
	if firstErr == nil {
		return data, nil
	}

	if match := fenceRe.FindStringSubmatch(trimmed); match != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &data); err == nil {
			return data, nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &data); err == nil {
			return data, nil
		}
	}

	return nil, &ExtractionError{Raw: raw, Err: firstErr}
}
