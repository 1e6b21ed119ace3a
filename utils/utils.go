// Package utils provides utility functions for the URL shortener service.
package utils

import "strings"

// ShortURL composes the externally visible short URL from the configured base
// endpoint and a short code. Trailing slashes on the base are dropped so the
// result always has exactly one separator.
func ShortURL(baseURL, shortCode string) string {
	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}
