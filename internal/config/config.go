// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when no --config flag is given.
const DefaultFile = "blogidx.yaml"

// SiteConfig holds the configuration from the blogidx.yaml file.
// The `yaml` tags are used by the parser to map file keys to struct fields.
type SiteConfig struct {
	BlogDir     string   `yaml:"blog_dir"`
	Readme      string   `yaml:"readme"`
	StartMarker string   `yaml:"start_marker"`
	EndMarker   string   `yaml:"end_marker"`
	URL         string   `yaml:"url"`
	BaseURL     string   `yaml:"base_url"`
	Extensions  []string `yaml:"extensions"`
	Archetype   string   `yaml:"archetype"`
}

// Default returns the settings of the blog this tool was written for.
func Default() SiteConfig {
	return SiteConfig{
		BlogDir:     "blog",
		Readme:      "README.md",
		StartMarker: "## 📝 blog 目录",
		EndMarker:   "## 📄 许可证",
		URL:         "https://ltlylfun.github.io",
		BaseURL:     "/blog-ltlyl/",
		Extensions:  []string{".md"},
	}
}

// LoadSiteConfig reads path on top of Default. A missing file is not an
// error; the defaults are returned as-is.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *SiteConfig) normalize() {
	exts := c.Extensions[:0]
	for _, ext := range c.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts
}

// Validate reports settings the synchronizer cannot work with.
func (c SiteConfig) Validate() error {
	switch {
	case c.BlogDir == "":
		return errors.New("blog_dir must not be empty")
	case c.Readme == "":
		return errors.New("readme must not be empty")
	case c.StartMarker == "" || c.EndMarker == "":
		return errors.New("start_marker and end_marker must not be empty")
	case c.StartMarker == c.EndMarker:
		return errors.New("start_marker and end_marker must differ")
	case len(c.Extensions) == 0:
		return errors.New("at least one content extension is required")
	}
	return nil
}

// PostURL builds https://<host>/<base-path>/blog/<slug>.
func (c SiteConfig) PostURL(slug string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(c.URL, "/"))
	if base := strings.Trim(c.BaseURL, "/"); base != "" {
		b.WriteString("/")
		b.WriteString(base)
	}
	b.WriteString("/blog/")
	b.WriteString(slug)
	return b.String()
}
