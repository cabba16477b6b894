package facts

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadDocument reads a facts document from a JSON file.
//
// Absent optional fields decode to empty collections; no shape validation is
// performed beyond JSON well-formedness.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding facts file: %w", err)
	}

	return &doc, nil
}
