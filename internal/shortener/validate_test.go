package shortener_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinylink/tinylink/internal/shortener"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantErr error
	}{
		{
			name:   "valid https url",
			rawURL: "https://example.com/a",
		},
		{
			name:   "valid http url with port and query",
			rawURL: "http://example.com:8080/path?q=1",
		},
		{
			name:   "url at the length bound",
			rawURL: "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength-20),
		},
		{
			name:    "url one past the length bound",
			rawURL:  "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength-19),
			wantErr: shortener.ErrURLTooLong,
		},
		{
			name:    "missing scheme",
			rawURL:  "example.com/a",
			wantErr: shortener.ErrInvalidURL,
		},
		{
			name:    "missing host",
			rawURL:  "https://",
			wantErr: shortener.ErrInvalidURL,
		},
		{
			name:    "empty",
			rawURL:  "",
			wantErr: shortener.ErrInvalidURL,
		},
		{
			name:    "unparseable",
			rawURL:  "http://[::1",
			wantErr: shortener.ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shortener.ValidateURL(tt.rawURL)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
