// internal/catalog/title.go
package catalog

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// frontMatter is the subset of post front matter the index cares about.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

var (
	markdownParser = goldmark.New().Parser()

	utf8BOM = []byte("\ufeff")

	// titleLine is used when the front matter block is not valid YAML,
	// e.g. an unquoted title containing ": ".
	titleLine = regexp.MustCompile(`(?m)^\s*title:\s*(.+)$`)
)

// ResolveTitle picks the display title of a post: the front matter title,
// then the first level-1 heading of the body, then the slug with hyphens
// turned into spaces.
func ResolveTitle(content []byte, slug string) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	title, body := frontMatterTitle(content)
	if title != "" {
		return title
	}
	if title = firstHeading(body); title != "" {
		return title
	}
	// A leading block that only looked like front matter may hold the
	// heading itself, e.g. a post opening with a "---" rule.
	if len(body) != len(content) {
		if title = firstHeading(content); title != "" {
			return title
		}
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// frontMatterTitle returns the front matter title (possibly empty) and the
// content that follows the front matter block.
func frontMatterTitle(content []byte) (string, []byte) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err == nil {
		return strings.TrimSpace(meta.Title), body
	}

	// Malformed block: fall back to a plain line scan between the
	// first two "---" delimiters.
	parts := bytes.SplitN(content, []byte("---"), 3)
	if len(parts) < 3 || len(bytes.TrimSpace(parts[0])) != 0 {
		return "", content
	}
	m := titleLine.FindSubmatch(parts[1])
	if m == nil {
		return "", content
	}
	title := strings.TrimSpace(string(m[1]))
	title = strings.TrimSpace(strings.Trim(title, `"'`))
	return title, parts[2]
}

// firstHeading returns the text of the first non-empty top-level
// level-1 heading in body.
func firstHeading(body []byte) string {
	doc := markdownParser.Parse(text.NewReader(body))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		lines := h.Lines()
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(body))))
		}
		if title := strings.TrimSpace(strings.Join(parts, " ")); title != "" {
			return title
		}
	}
	return ""
}
