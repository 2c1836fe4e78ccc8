package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans user-supplied HTML to prevent XSS. Applied to post titles,
// contents and comments before they reach the rules engines.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
