package panel

import (
	"encoding/json"
	"os"
)

// LoadFromFile reads a panel definition from a JSON file.
func LoadFromFile(filepath string) (*Definition, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a panel definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}
