package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := GitCommit
	t.Cleanup(func() { GitCommit = old })
	GitCommit = "abc123"

	assert.Contains(t, String(), "gopanel v"+Version)
	assert.Contains(t, String(), "commit abc123")
}
