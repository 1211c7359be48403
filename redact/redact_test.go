package redact_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ios7jbpro/jellyfin-mass-dl/redact"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.Exactly(t, "", redact.String(""))
	assert.Exactly(t, "**", redact.String("ab"))
	assert.Exactly(t, "****", redact.String("abcd"))

	got := redact.String("supersecrettoken")
	assert.Exactly(t, "su************en", got)
	assert.NotContains(t, got, "secret")
	assert.Exactly(t, len("supersecrettoken"), len(got))
	assert.True(t, strings.Contains(got, "*"))
}
