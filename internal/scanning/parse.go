package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseResultsJSON extracts the JSON array of per-receipt records from an
// LLM text response. Models wrap responses in markdown fences or prose often
// enough that the parser locates the array boundaries itself. A bare object
// response is accepted and treated as a one-element array.
func parseResultsJSON(text string) ([]RawResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	endIdx := strings.LastIndex(text, "]")
	if startIdx == -1 || endIdx < startIdx {
		// Some models return a single object for a one-file batch.
		objStart := strings.Index(text, "{")
		objEnd := strings.LastIndex(text, "}")
		if objStart == -1 || objEnd < objStart {
			return nil, fmt.Errorf("no JSON array found in response")
		}
		var single RawResult
		if err := json.Unmarshal([]byte(text[objStart:objEnd+1]), &single); err != nil {
			return nil, fmt.Errorf("unmarshaling json: %w", err)
		}
		return []RawResult{single}, nil
	}

	var results []RawResult
	if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &results); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	return results, nil
}
