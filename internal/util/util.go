package util

import (
	"strings"
	"unicode"
)

// Slugify turns a post title into a filename slug: lower case, runs of
// spaces and punctuation become a single hyphen, letters and digits of any
// script are kept. "Hello, World!" becomes "hello-world".
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
