package laminate

import (
	"encoding/json"
	"os"
)

// LoadFromFile reads a laminate definition from a JSON file.
func LoadFromFile(filepath string) (*Definition, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}
