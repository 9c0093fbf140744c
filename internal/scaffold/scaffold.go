// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"blogidx/internal/config"
	"blogidx/internal/util"

	"gopkg.in/yaml.v3"
)

// Init writes a blogidx.yaml with the default settings into dir and creates
// the blog directory. An existing config file is left alone.
func Init(dir string) error {
	cfg := config.Default()
	if err := os.MkdirAll(filepath.Join(dir, cfg.BlogDir), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", cfg.BlogDir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(dir, config.DefaultFile)
	if err := writeNew(path, data); err != nil {
		return err
	}
	fmt.Println("Created:", path)
	fmt.Println("Add these two lines to your README to mark the catalog section:")
	fmt.Println(" ", cfg.StartMarker)
	fmt.Println(" ", cfg.EndMarker)
	return nil
}

// NewPost creates <blog_dir>/<date>-<slug>.md from the archetype and
// returns its path. It refuses to overwrite an existing post.
func NewPost(site config.SiteConfig, title string, now time.Time) (string, error) {
	slug := util.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable slug", title)
	}

	ext := ".md"
	if len(site.Extensions) > 0 {
		ext = site.Extensions[0]
	}
	date := now.Format("2006-01-02")
	path := filepath.Join(site.BlogDir, date+"-"+slug+ext)

	tmplText := archetypeDefaultMdContent
	if site.Archetype != "" {
		tmplBytes, err := os.ReadFile(site.Archetype)
		if err != nil {
			return "", fmt.Errorf("could not read archetype file %s: %w", site.Archetype, err)
		}
		tmplText = string(tmplBytes)
	}

	tmpl, err := template.New("archetype").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype: %w", err)
	}

	data := struct {
		Title string
		Slug  string
		Date  string
	}{
		Title: title,
		Slug:  slug,
		Date:  date,
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := writeNew(path, output.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// writeNew creates path exclusively.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists", path)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const archetypeDefaultMdContent = `---
title: {{ printf "%q" .Title }}
---

Write something meaningful here.
`
