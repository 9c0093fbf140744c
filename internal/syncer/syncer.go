// internal/syncer/syncer.go
package syncer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"blogidx/internal/catalog"
	"blogidx/internal/config"
	"blogidx/internal/document"

	"go.uber.org/zap"
)

// ErrStale is returned in check mode when the document does not hold the
// catalog that would be generated now.
var ErrStale = errors.New("catalog section is out of date")

// Options says where the posts and the document live and how the
// catalog links are built.
type Options struct {
	BlogDir     string
	Readme      string
	StartMarker string
	EndMarker   string
	Extensions  []string
	URL         catalog.URLFunc
	// Check compares instead of writing.
	Check  bool
	Logger *zap.Logger
}

// OptionsFromConfig fills Options from the site configuration.
func OptionsFromConfig(cfg config.SiteConfig, logger *zap.Logger) Options {
	return Options{
		BlogDir:     cfg.BlogDir,
		Readme:      cfg.Readme,
		StartMarker: cfg.StartMarker,
		EndMarker:   cfg.EndMarker,
		Extensions:  cfg.Extensions,
		URL:         cfg.PostURL,
		Logger:      logger,
	}
}

// Result summarizes one run.
type Result struct {
	Posts   int
	Skipped int
	// Changed reports whether the document content differs from the
	// regenerated one. In check mode nothing is written either way.
	Changed bool
}

// ListContentFiles returns the names of the non-directory entries directly
// inside dir that end with one of exts.
func ListContentFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list content directory %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !slices.Contains(exts, filepath.Ext(entry.Name())) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// LoadPosts reads and parses every file among names. Files with an undated
// name are skipped and counted.
func LoadPosts(dir string, names []string, url catalog.URLFunc, logger *zap.Logger) ([]catalog.Post, int, error) {
	logger = orNop(logger)
	posts := make([]catalog.Post, 0, len(names))
	skipped := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		post, ok := catalog.ParseMetadata(name, content, url)
		if !ok {
			logger.Debug("skipping undated file", zap.String("file", name))
			skipped++
			continue
		}
		if !utf8.Valid(content) {
			logger.Warn("content file is not valid UTF-8", zap.String("file", path))
		}
		logger.Debug("parsed post",
			zap.String("file", name),
			zap.String("title", post.Title),
		)
		posts = append(posts, post)
	}
	return posts, skipped, nil
}

// Generate builds the catalog section for the posts in opts.BlogDir.
func Generate(opts Options) (string, Result, error) {
	names, err := ListContentFiles(opts.BlogDir, opts.Extensions)
	if err != nil {
		return "", Result{}, err
	}
	posts, skipped, err := LoadPosts(opts.BlogDir, names, opts.URL, opts.Logger)
	if err != nil {
		return "", Result{}, err
	}
	c := catalog.Group(posts)
	return document.Section(catalog.Render(c)), Result{Posts: c.Len(), Skipped: skipped}, nil
}

// Sync regenerates the catalog section of opts.Readme. The document is
// only written when its content changes, and never when a marker is
// missing. With opts.Check set it returns ErrStale instead of writing.
func Sync(opts Options) (Result, error) {
	logger := orNop(opts.Logger)

	section, res, err := Generate(opts)
	if err != nil {
		return res, err
	}

	original, err := os.ReadFile(opts.Readme)
	if err != nil {
		return res, fmt.Errorf("failed to read document %s: %w", opts.Readme, err)
	}
	updated, err := document.Splice(string(original), opts.StartMarker, opts.EndMarker, section)
	if err != nil {
		return res, fmt.Errorf("document %s is malformed: %w", opts.Readme, err)
	}

	res.Changed = updated != string(original)
	logger.Debug("catalog generated",
		zap.Int("posts", res.Posts),
		zap.Int("skipped", res.Skipped),
		zap.Bool("changed", res.Changed),
	)
	if !res.Changed {
		return res, nil
	}
	if opts.Check {
		return res, fmt.Errorf("%s: %w", opts.Readme, ErrStale)
	}
	if err := document.WriteFileAtomic(opts.Readme, []byte(updated)); err != nil {
		return res, err
	}
	logger.Info("document updated", zap.String("path", opts.Readme))
	return res, nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
