package handlers

import "time"

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code        string    `doc:"The short code"                example:"abc123"                             json:"code"`
		ShortURL    string    `doc:"The full short URL"            example:"http://localhost:8888/abc123"       json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"              example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the short URL expires"    json:"expiresAt"`
	}
}

// RedirectRequest is the request for resolving a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}
