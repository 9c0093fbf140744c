package syncer

import (
	"os"
	"path/filepath"
	"testing"

	"blogidx/internal/config"
	"blogidx/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = `# My blog

## 📝 blog 目录

stale entries

## 📄 许可证

MIT
`

type fixture struct {
	dir    string
	blog   string
	readme string
	opts   Options
}

func newFixture(t *testing.T, doc string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		blog:   filepath.Join(dir, "blog"),
		readme: filepath.Join(dir, "README.md"),
	}
	require.NoError(t, os.Mkdir(f.blog, 0755))
	require.NoError(t, os.WriteFile(f.readme, []byte(doc), 0644))

	cfg := config.Default()
	cfg.BlogDir = f.blog
	cfg.Readme = f.readme
	f.opts = OptionsFromConfig(cfg, nil)
	return f
}

func (f fixture) post(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.blog, name), []byte(content), 0644))
}

func (f fixture) readDoc(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.readme)
	require.NoError(t, err)
	return string(data)
}

func TestListContentFiles(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2024-01-05-foo.md", "")
	f.post(t, "notes.txt", "")
	f.post(t, "about.md", "")
	require.NoError(t, os.Mkdir(filepath.Join(f.blog, "2024-01-01-dir.md"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(f.blog, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.blog, "nested", "2024-02-02-deep.md"), nil, 0644))

	names, err := ListContentFiles(f.blog, []string{".md"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024-01-05-foo.md", "about.md"}, names)
}

func TestListContentFilesMissingDir(t *testing.T) {
	_, err := ListContentFiles(filepath.Join(t.TempDir(), "missing"), []string{".md"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSyncWritesCatalog(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2024-01-05-foo.md", "---\ntitle: \"Foo Post\"\n---\n\nHello\n")
	f.post(t, "2024-01-02-bar.md", "# Bar Title\n\nWorld\n")
	f.post(t, "about.md", "# About\n")

	res, err := Sync(f.opts)
	require.NoError(t, err)
	assert.Equal(t, Result{Posts: 2, Skipped: 1, Changed: true}, res)

	want := `# My blog

## 📝 blog 目录

### 2024 年

#### 1 月

1. [Foo Post](https://ltlylfun.github.io/blog-ltlyl/blog/foo)
2. [Bar Title](https://ltlylfun.github.io/blog-ltlyl/blog/bar)


## 📄 许可证

MIT
`
	assert.Equal(t, want, f.readDoc(t))
}

func TestSyncTitleEdgeCases(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2024-01-05-foo.md", "---\n\n# Real Heading\n\nintro\n\n---\n\nbody\n")
	f.post(t, "2024-01-04-bom.md", "\ufeff---\ntitle: BOM Title\n---\n# Other\n")

	_, err := Sync(f.opts)
	require.NoError(t, err)

	doc := f.readDoc(t)
	assert.Contains(t, doc, "1. [Real Heading](https://ltlylfun.github.io/blog-ltlyl/blog/foo)\n")
	assert.Contains(t, doc, "2. [BOM Title](https://ltlylfun.github.io/blog-ltlyl/blog/bom)\n")
}

func TestLoadPostsSkipsUndated(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2024-02-01-dated.md", "# Dated\n")
	f.post(t, "about.md", "# About\n")

	posts, skipped, err := LoadPosts(f.blog, []string{"2024-02-01-dated.md", "about.md"}, f.opts.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, posts, 1)
	assert.Equal(t, "Dated", posts[0].Title)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2023-07-01-first-post.md", "plain body\n")

	_, err := Sync(f.opts)
	require.NoError(t, err)
	once := f.readDoc(t)

	res, err := Sync(f.opts)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, once, f.readDoc(t))
}

func TestSyncMissingEndMarkerLeavesDocumentUntouched(t *testing.T) {
	doc := "# My blog\n\n## 📝 blog 目录\n\nold\n"
	f := newFixture(t, doc)
	f.post(t, "2024-01-05-foo.md", "# Foo\n")

	_, err := Sync(f.opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrMarkerNotFound)
	assert.Equal(t, doc, f.readDoc(t))

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary file should be created")
}

func TestSyncMissingDocument(t *testing.T) {
	f := newFixture(t, readme)
	require.NoError(t, os.Remove(f.readme))

	_, err := Sync(f.opts)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckReportsStaleWithoutWriting(t *testing.T) {
	f := newFixture(t, readme)
	f.post(t, "2024-01-05-foo.md", "# Foo\n")

	opts := f.opts
	opts.Check = true
	res, err := Sync(opts)
	assert.ErrorIs(t, err, ErrStale)
	assert.True(t, res.Changed)
	assert.Equal(t, readme, f.readDoc(t))

	_, err = Sync(f.opts)
	require.NoError(t, err)

	res, err = Sync(opts)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}
