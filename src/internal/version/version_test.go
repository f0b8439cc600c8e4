// FILE: svckit/src/internal/version/version_test.go
package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	Version, GitCommit = "1.2.3", "abc123"

	out := String()
	assert.Contains(t, out, "svckit 1.2.3")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, runtime.Version())
	assert.Equal(t, "1.2.3", Short())
}
