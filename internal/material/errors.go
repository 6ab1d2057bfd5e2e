package material

import (
	"errors"
	"fmt"
)

// ErrNumericDomain indicates a criterion evaluated outside its real domain
// (negative quadratic index or negative discriminant).
var ErrNumericDomain = errors.New("material: criterion outside numeric domain")

// ConfigError reports a required material property that is not set
type ConfigError struct {
	Material string
	Field    string
}

func (e *ConfigError) Error() string {
	if e.Material == "" {
		return fmt.Sprintf("material property %q is not set", e.Field)
	}
	return fmt.Sprintf("material %s: property %q is not set", e.Material, e.Field)
}

// KeyError reports an unknown lookup key
type KeyError struct {
	Kind string
	Key  string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}
