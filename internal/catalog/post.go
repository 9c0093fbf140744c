// internal/catalog/post.go
package catalog

import (
	"path/filepath"
	"regexp"
	"strings"
)

// filenamePattern matches the extension-less name of a dated post,
// e.g. 2024-01-05-hello-world.
var filenamePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// Post is the metadata of one dated blog post. It is built once per run
// and never modified afterwards.
type Post struct {
	Year  string
	Month string
	Day   string
	Slug  string
	Title string
	URL   string
}

// URLFunc turns a slug into the canonical URL of the post.
type URLFunc func(slug string) string

// ParseFilename splits a post filename into its date parts and slug.
// ok is false when the name is not of the form YYYY-MM-DD-<slug>.<ext>.
func ParseFilename(filename string) (year, month, day, slug string, ok bool) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	m := filenamePattern.FindStringSubmatch(stem)
	if m == nil {
		return "", "", "", "", false
	}
	return m[1], m[2], m[3], m[4], true
}

// ParseMetadata builds the Post for filename. Files whose name is not a
// dated post name are reported with ok == false and must be skipped by the
// caller; that is not an error.
func ParseMetadata(filename string, content []byte, url URLFunc) (Post, bool) {
	year, month, day, slug, ok := ParseFilename(filename)
	if !ok {
		return Post{}, false
	}
	p := Post{
		Year:  year,
		Month: month,
		Day:   day,
		Slug:  slug,
		Title: ResolveTitle(content, slug),
	}
	if url != nil {
		p.URL = url(slug)
	}
	return p, true
}
