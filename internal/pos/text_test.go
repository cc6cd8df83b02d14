package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidText(t *testing.T) {
	assert.True(t, ValidText("Anna"))
	assert.False(t, ValidText(""))
	assert.False(t, ValidText("a\tb"))
	assert.False(t, ValidText("a\nb"))
	assert.False(t, ValidText("a\rb"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "a b c", SanitizeText(" a\tb\nc "))

	decomposed := "Ka\u0301ve\u0301"
	assert.Equal(t, "Kávé", SanitizeText(decomposed))
}
