package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	full := Info{Version: "v1.2.0", GitCommit: "abc1234", BuildTime: "2026-08-01T10:00:00Z"}
	assert.Equal(t, "v1.2.0 (abc1234, built 2026-08-01T10:00:00Z)", full.String())

	assert.Equal(t, "dev", Info{}.String())
	assert.Equal(t, "v0.3.0", Info{Version: "v0.3.0"}.String())
}
