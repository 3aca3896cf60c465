package shortener

import "net/url"

// MaxURLLength is the longest original URL accepted for shortening.
const MaxURLLength = 2048

// ValidateURL checks that a raw URL is shortenable: parseable, with a
// scheme and host, and within the length bound. Returns ErrURLTooLong
// or ErrInvalidURL.
func ValidateURL(rawURL string) error {
	if len(rawURL) > MaxURLLength {
		return ErrURLTooLong
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL
	}

	if u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
