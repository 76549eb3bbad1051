package utils

import (
	"net/url"
)

const redacted = "REDACTED"

// RedactURL hides the api_key query parameter of raw so the URL can be logged.
// Unparsable input is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("api_key") == "" {
		return raw
	}
	q.Set("api_key", redacted)
	u.RawQuery = q.Encode()
	return u.String()
}
