package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	assert.Equal(t, "dev (commit none, built unknown)", String())

	Version, Commit, Date = "v1.2.0", "abc123", "2025-02-01"
	assert.Equal(t, "v1.2.0 (commit abc123, built 2025-02-01)", String())
}
