package laminate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSingularStiffness indicates the 6×6 laminate stiffness cannot be inverted.
	ErrSingularStiffness = errors.New("laminate: singular stiffness matrix")

	// ErrNotComputed indicates stresses were requested before Compute.
	ErrNotComputed = errors.New("laminate: not computed")
)

// ValidationError lists every issue found in a definition
type ValidationError struct {
	Issues []string
}

// Add records one issue.
func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

// Merge appends the issues of another validation error, prefixed.
func (e *ValidationError) Merge(prefix string, other error) {
	var v *ValidationError
	if errors.As(other, &v) {
		for _, issue := range v.Issues {
			e.Add(prefix + issue)
		}
		return
	}
	if other != nil {
		e.Add(prefix + other.Error())
	}
}

// ErrOrNil returns nil when no issue was recorded.
func (e *ValidationError) ErrOrNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return fmt.Sprintf("%d issues:\n  - %s", len(e.Issues), strings.Join(e.Issues, "\n  - "))
}

// IndexError reports a ply index outside the stack
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("ply index %d out of range [0, %d)", e.Index, e.Len)
}
