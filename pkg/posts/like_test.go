package posts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))

	ascii := strings.Repeat("a", 100)
	assert.Len(t, preview(ascii), 80)

	// multibyte characters never get split mid-rune
	long := strings.Repeat("é", 100)
	p := preview(long)
	assert.True(t, utf8.ValidString(p))
	assert.Equal(t, 80, utf8.RuneCountInString(p))
}
