package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	got, ok := NormalizeEmail("  Ana.Souza@Vetly.com.BR ")
	assert.True(t, ok)
	assert.Equal(t, "ana.souza@vetly.com.br", got)

	for _, bad := range []string{"", "ana", "ana@", "Ana <ana@vetly.com>", "a b@c.com"} {
		_, ok := NormalizeEmail(bad)
		assert.False(t, ok, bad)
	}
}
