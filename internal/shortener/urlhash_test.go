package shortener_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylink/tinylink/internal/shortener"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases scheme and host",
			input:    "HTTPS://EXAMPLE.COM/Path",
			expected: "https://example.com/Path",
		},
		{
			name:     "removes default http port",
			input:    "http://example.com:80/path",
			expected: "http://example.com/path",
		},
		{
			name:     "removes default https port",
			input:    "https://example.com:443/path",
			expected: "https://example.com/path",
		},
		{
			name:     "keeps non-default port",
			input:    "https://example.com:8443/path",
			expected: "https://example.com:8443/path",
		},
		{
			name:     "removes trailing slash",
			input:    "https://example.com/path/",
			expected: "https://example.com/path",
		},
		{
			name:     "keeps root slash",
			input:    "https://example.com/",
			expected: "https://example.com/",
		},
		{
			name:     "removes empty fragment",
			input:    "https://example.com/path#",
			expected: "https://example.com/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shortener.NormalizeURL(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHashURL(t *testing.T) {
	t.Run("equal urls hash equal", func(t *testing.T) {
		a := shortener.HashURL("https://example.com/a")
		b := shortener.HashURL("https://example.com/a")

		assert.Equal(t, a, b)
	})

	t.Run("different urls hash different", func(t *testing.T) {
		a := shortener.HashURL("https://example.com/a")
		b := shortener.HashURL("https://example.com/b")

		assert.NotEqual(t, a, b)
	})

	t.Run("normalized variants hash equal", func(t *testing.T) {
		na, err := shortener.NormalizeURL("HTTPS://Example.com:443/a/")
		require.NoError(t, err)

		nb, err := shortener.NormalizeURL("https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, shortener.HashURL(na), shortener.HashURL(nb))
	})
}
