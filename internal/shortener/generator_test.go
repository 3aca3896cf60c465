package shortener_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylink/tinylink/internal/shortener"
)

func TestNewCodeGenerator(t *testing.T) {
	t.Run("generates codes of the requested length", func(t *testing.T) {
		generate, err := shortener.NewCodeGenerator(7)

		require.NoError(t, err)
		assert.Len(t, string(generate()), 7)
	})

	t.Run("codes only use the base62 alphabet", func(t *testing.T) {
		generate, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			for _, r := range string(generate()) {
				assert.True(t, strings.ContainsRune(shortener.Alphabet, r))
			}
		}
	})

	t.Run("codes do not repeat over many draws", func(t *testing.T) {
		generate, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		seen := make(map[shortener.Code]bool)

		for i := 0; i < 10000; i++ {
			code := generate()
			assert.False(t, seen[code], "duplicate code %q", code)
			seen[code] = true
		}
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		_, err := shortener.NewCodeGenerator(1)

		assert.Error(t, err)
	})
}
