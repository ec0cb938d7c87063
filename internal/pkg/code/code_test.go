package code

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultLength(t *testing.T) {
	c, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, c, DefaultLength)
}

func TestGenerate_Charset(t *testing.T) {
	c, err := Generate(64)
	require.NoError(t, err)
	for _, r := range c {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerate_CodesDiffer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c, err := Generate(6)
		require.NoError(t, err)
		seen[c] = true
	}
	// 20 draws from a 36^6 space colliding down to one value would mean a
	// broken random source.
	assert.Greater(t, len(seen), 1)
}
