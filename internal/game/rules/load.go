package rules

import (
	"encoding/json"
	"fmt"
)

// load reads and unmarshals a JSON file from the embedded filesystem.
func load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile("data/" + filename)
	if err != nil {
		return result, fmt.Errorf("reading embedded table %s: %w", filename, err)
	}
	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return result, nil
}
